// Package lifecycle runs ordered hook phases over the instances an
// application creates.
//
// Any instance may implement one or more hook interfaces:
//
//	func (s *Server) OnApplicationBootstrap(ctx context.Context) error { return s.start() }
//	func (s *Server) OnApplicationShutdown(ctx context.Context, signal string) error {
//	    return s.srv.Shutdown(ctx)
//	}
//
// Instances without a hook are skipped. Registration is idempotent per
// instance identity. Init and bootstrap follow registration order; destroy and
// shutdown follow the exact reverse.
package lifecycle
