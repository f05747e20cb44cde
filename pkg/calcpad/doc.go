// Package calcpad provides an embeddable calculator widget.
//
// A [Calculator] is a single calculator state with its history. It can be
// driven directly from Go code:
//
//	c := calcpad.NewCalculator(calcpad.DefaultHistoryLimit)
//	c.Press("number", "5")
//	c.Press("operator", "+")
//	c.Press("number", "3")
//	model, _ := c.Press("calculate", "")
//	fmt.Println(model.Main) // 8
//
// A [Server] serves the widget page over HTTP and gives every WebSocket
// connection its own calculator:
//
//	srv, err := calcpad.NewServer(calcpad.Config{Listen: "127.0.0.1:8080"},
//	    calcpad.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Stop()
//
// # Lifecycle
//
// A server moves through [StateStopped], [StateStarting], [StateRunning]
// and [StateStopping]. A failed start or an unexpected listener error
// leaves it in [StateCrashed], from which it can be started again.
//
// # Plugins
//
// A [Plugin] is initialized on Start, in registration order, and shut down
// on Stop in reverse order. See plugins/configwatcher for a plugin that
// reloads the log level when the config file changes.
//
// # Thread Safety
//
// Calculator and Server methods are safe for concurrent use.
package calcpad
