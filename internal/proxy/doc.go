// Package proxy controls the reverse proxy that publishes project routes.
//
// The only implementation is Nginx. It validates the full configuration
// with "nginx -t", reloads the running server through systemd and reports
// whether the nginx unit is active. The routes file itself is produced by
// the routes package; this package never edits nginx configuration.
//
//	ctl := proxy.NewNginx(system.DefaultExecutor())
//	if err := ctl.Validate(ctx); err != nil {
//	    return err // ExternalCommandFailed carrying nginx's output
//	}
//	return ctl.Reload(ctx)
package proxy
