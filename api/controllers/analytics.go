package controllers

import (
	"net/http"

	"github.com/stefanobartoli/filiera-backend/api/responses"
	"github.com/stefanobartoli/filiera-backend/internal/analytics"
	pkgerrors "github.com/stefanobartoli/filiera-backend/pkg/errors"
	"github.com/stefanobartoli/filiera-backend/pkg/logger"
)

// AnalyticsDashboard serves the cross-entity KPI rollup.
func AnalyticsDashboard(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		kpi, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, kpi)
	}
}
