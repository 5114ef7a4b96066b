package server

import (
	"net/http"

	"wastewatch/pkg/types"
)

func (s *Service) handleGetStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.stats.ComputeStats(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "Failed to compute stats")
		return
	}

	s.metrics.RecordStats(summary)

	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Service) handleGetTips(w http.ResponseWriter, r *http.Request) {
	tips, err := s.tips.Tips(r.Context())
	if err != nil {
		s.writeServiceError(w, &types.StorageError{Op: "list tips", Err: err}, "Failed to fetch tips")
		return
	}

	if tips == nil {
		tips = []*types.Tip{}
	}

	s.writeJSON(w, http.StatusOK, tips)
}
