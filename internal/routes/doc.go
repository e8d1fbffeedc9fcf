// Package routes renders the nginx location include generated from the
// registry.
//
// The output is a build artifact owned entirely by projrouter. Render is a
// pure function: equal project maps always produce byte-identical text,
// which is what lets check detect hand edits by plain comparison.
//
// Each project becomes one stanza, sorted by name:
//
//	location /<name>/ {
//	    proxy_pass http://127.0.0.1:<port>/;
//	    proxy_set_header Host $host;
//	    proxy_set_header X-Real-IP $remote_addr;
//	    proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
//	    proxy_set_header X-Forwarded-Proto $scheme;
//	}
//
// Parse reads stanzas back out of a file on disk so drift can be reported
// per project.
package routes
