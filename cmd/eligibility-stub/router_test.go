package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/ogurasousui/hr-employee-service/internal/adapters/eligibility"
	"github.com/ogurasousui/hr-employee-service/internal/core/employee"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_ServesEligibilityToClient(t *testing.T) {
	t.Parallel()

	emp := employee.NewInternalEmployee("Megan", "Jones", 2, decimal.NewFromInt(3000), false, 2)
	srv := httptest.NewServer(newRouter(zerolog.Nop(), newDirectory([]string{emp.ID.String()}, false)))
	t.Cleanup(srv.Close)

	client, err := eligibility.NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	eligible, err := client.IsEligibleForPromotion(context.Background(), emp)
	require.NoError(t, err)
	assert.True(t, eligible)

	other := employee.NewInternalEmployee("John", "Castle", 5, decimal.NewFromInt(3000), false, 1)
	eligible, err = client.IsEligibleForPromotion(context.Background(), other)
	require.NoError(t, err)
	assert.False(t, eligible)
}

func TestRouter_PutOverridesEligibility(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newRouter(zerolog.Nop(), newDirectory(nil, false)))
	t.Cleanup(srv.Close)

	id := uuid.New()
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/promotioneligibilities/"+id.String(), strings.NewReader(`{"eligibleForPromotion":true}`))
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	emp := employee.NewInternalEmployee("John", "Castle", 5, decimal.NewFromInt(3000), false, 1)
	emp.ID = id
	client, err := eligibility.NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	eligible, err := client.IsEligibleForPromotion(context.Background(), emp)
	require.NoError(t, err)
	assert.True(t, eligible)
}

func TestRouter_RejectsMalformedID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newRouter(zerolog.Nop(), newDirectory(nil, true)))
	t.Cleanup(srv.Close)

	resp, err := srv.Client().Get(srv.URL + "/api/promotioneligibilities/not-a-uuid")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSplitIDs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b"}, splitIDs(" a, ,b "))
	assert.Nil(t, splitIDs(""))
}
