package api

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.MonitorInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)
	s.router.GET("/status", s.statusHandler.GetStatus)
	s.router.GET("/stream", s.videoHandler.Stream)
	s.router.GET("/frame.jpg", s.videoHandler.LatestFrame)

	system := s.router.Group("/system")
	{
		system.GET("/stats", s.systemHandler.GetStats)
	}
}
