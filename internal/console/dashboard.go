package console

import (
	"log"
	"net/http"

	"github.com/sufield/libadmin/internal/dashboard"
)

// dashboardData is nil-safe: Overview is nil while nothing could be loaded.
type dashboardData struct {
	Overview *dashboard.Overview
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	var data dashboardData
	ov, err := dashboard.Load(r.Context(), s.cat)
	if err != nil {
		log.Printf("Error fetching dashboard data: %v", err)
	} else {
		data.Overview = &ov
	}
	s.render(w, r, http.StatusOK, "dashboard", view{Title: "Dashboard", Active: "/dashboard", Data: data})
}
