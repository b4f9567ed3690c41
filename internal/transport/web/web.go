package web

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/oblipix/viagemimpacta/internal/hotel"
	"github.com/oblipix/viagemimpacta/internal/inventory"
	"github.com/oblipix/viagemimpacta/internal/logger"
	"github.com/oblipix/viagemimpacta/internal/promo"
	"github.com/oblipix/viagemimpacta/internal/search"
)

type Server struct {
	srv       *http.Server
	router    *http.ServeMux
	l         *logger.Logger
	conf      Conf
	catalog   *hotel.Catalog
	ledger    *inventory.Ledger
	simulator *inventory.Simulator
	query     *inventory.QueryService
	engine    *search.Engine
	promos    *promo.Manager
}

type Conf struct {
	L                 *logger.Logger
	ServerLogger      *log.Logger
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	LivenessEndpoint  string
}

type Deps struct {
	Catalog   *hotel.Catalog
	Ledger    *inventory.Ledger
	Simulator *inventory.Simulator
	Query     *inventory.QueryService
	Engine    *search.Engine
	Promos    *promo.Manager
}

func New(ctx context.Context, conf Conf, deps Deps) (*Server, error) {
	mux := http.NewServeMux()

	//nolint:exhaustruct
	srv := &http.Server{
		Addr:              net.JoinHostPort(conf.Host, conf.Port),
		ReadHeaderTimeout: conf.ReadHeaderTimeout * time.Second, //nolint:durationcheck
		ErrorLog:          conf.ServerLogger,
		Handler:           mux,
		BaseContext: func(listener net.Listener) context.Context {
			return ctx
		},
	}

	server := &Server{
		srv:       srv,
		router:    mux,
		l:         conf.L,
		conf:      conf,
		catalog:   deps.Catalog,
		ledger:    deps.Ledger,
		simulator: deps.Simulator,
		query:     deps.Query,
		engine:    deps.Engine,
		promos:    deps.Promos,
	}

	server.addRoutes(mux)

	return server, nil
}

func (s *Server) Srv() *http.Server {
	return s.srv
}
