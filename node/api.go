package node

import (
	"context"
	"net/http"
	"time"

	"rollup-l1-sender/coordinator"
	"rollup-l1-sender/log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// StatusAPI is the response of the status endpoint
type StatusAPI struct {
	Version     string `json:"version"`
	Coordinator string `json:"coordinator"`
}

// statusSource reports the running state of the aggregator loop
type statusSource interface {
	State() coordinator.State
}

// NodeAPI holds the node http API
type NodeAPI struct { //nolint:golint
	engine       *gin.Engine
	addr         string
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewNodeAPI creates a new NodeAPI serving the prometheus metrics and the
// status of coord
func NewNodeAPI(addr string, readTimeout, writeTimeout time.Duration, version string,
	coord statusSource) *NodeAPI {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, StatusAPI{
			Version:     version,
			Coordinator: coord.State().String(),
		})
	})
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "404 page not found"})
	})
	return &NodeAPI{
		engine:       engine,
		addr:         addr,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Run starts the http server of the NodeAPI.  To stop it, pass a context
// with cancellation.
func (a *NodeAPI) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:         a.addr,
		Handler:      a.engine,
		ReadTimeout:  a.readTimeout,
		WriteTimeout: a.writeTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infof("NodeAPI is ready at %v", a.addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("Stopping NodeAPI...")
	ctxTimeout, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctxTimeout); err != nil {
		return err
	}
	log.Info("NodeAPI done")
	return nil
}
