package bridge

import (
	"net/http"
	"time"

	"github.com/camtang26/cre8tiveCA/handler"
)

type serviceInfo struct {
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Status    string   `json:"status"`
	Endpoints []string `json:"endpoints"`
}

func (s *Service) root(w http.ResponseWriter, r *http.Request) {
	endpoints := []string{
		"POST /api/email",
		"POST /webhook/outlook/send_email",
		"POST /api/schedule",
		"POST /webhook/cal/schedule_consultation",
		"GET|POST /api/current-time",
		"GET /health",
	}
	s.render(w, r, handler.JSON(serviceInfo{
		Service:   s.cfg.ServiceName,
		Version:   s.cfg.Version,
		Status:    "running",
		Endpoints: endpoints,
	}))
}

func (s *Service) health(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, handler.JSON(map[string]string{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	}))
}
