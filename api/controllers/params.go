package controllers

import (
	"net/http"

	"github.com/stefanobartoli/filiera-backend/api/validators"
	"github.com/stefanobartoli/filiera-backend/pkg/pagination"
)

func paginationParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: validators.ParseQueryString(r, "cursor"),
	}, nil
}
