package routes

import (
	"text/template"
)

// routesData holds data for the routes template.
type routesData struct {
	Host   string
	Routes []Route
}

var routesTmpl = template.Must(template.New("routes").Parse(`# AUTOGENERATED FILE - DO NOT EDIT
# Generated from registry.toml
{{- $host := .Host}}
{{range $i, $r := .Routes}}{{if $i}}
{{end}}location /{{.Name}}/ {
    proxy_pass http://{{$host}}:{{.Port}}/;
    proxy_set_header Host $host;
    proxy_set_header X-Real-IP $remote_addr;
    proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
    proxy_set_header X-Forwarded-Proto $scheme;
}
{{end}}`))
