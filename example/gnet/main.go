// FILE: example/gnet/main.go
package main

import (
	"github.com/lixenwraith/fanlog"
	"github.com/lixenwraith/fanlog/compat"
	"github.com/panjf2000/gnet/v2"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	// gnet output goes to a json file and, from warn up, to the console
	file, err := fanlog.NewBuilder().
		Name("gnet").
		LevelString("debug").
		Format("json").
		File("/var/log/gnet/server.log", fanlog.LevelTrace).
		Build()
	if err != nil {
		panic(err)
	}
	defer file.Close()

	console := fanlog.NewLogger("console", fanlog.NewStderrSink(fanlog.MultiThreaded))
	console.SetLevel(fanlog.LevelWarn)

	multi, err := fanlog.NewCompositeLogger("gnet", file, console)
	if err != nil {
		panic(err)
	}

	gnetAdapter, err := compat.NewBuilder().
		WithLogger(multi).
		BuildGnet(compat.WithStructuredFields(true))
	if err != nil {
		panic(err)
	}

	// Configure gnet server with the logger
	err = gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		panic(err)
	}
}
