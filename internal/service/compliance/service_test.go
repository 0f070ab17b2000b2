package compliance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/advisorly/content-compliance-backend/internal/domain/compliance"
	domainerrors "github.com/advisorly/content-compliance-backend/internal/domain/errors"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, v *compliance.ContentValidation) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, v *compliance.ContentValidation) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*compliance.ContentValidation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*compliance.ContentValidation), args.Error(1)
}

func (m *MockRepository) ListByAdvisor(ctx context.Context, advisorID string, limit, offset int) ([]*compliance.ContentValidation, error) {
	args := m.Called(ctx, advisorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*compliance.ContentValidation), args.Error(1)
}

type MockQuickCheckCache struct {
	mock.Mock
}

func (m *MockQuickCheckCache) Get(ctx context.Context, key string) (*QuickCheckResult, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*QuickCheckResult), args.Bool(1), args.Error(2)
}

func (m *MockQuickCheckCache) Set(ctx context.Context, key string, result QuickCheckResult) error {
	args := m.Called(ctx, key, result)
	return args.Error(0)
}

func newTestService(t *testing.T, repo compliance.Repository, cache QuickCheckCache) *Service {
	logger := zaptest.NewLogger(t)
	return NewService(logger, NewEngine(logger), repo, cache, nil)
}

func TestServiceValidateContentStores(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*compliance.ContentValidation")).Return(nil)

	svc := newTestService(t, repo, nil)

	v, err := svc.ValidateContent(context.Background(), "clean note about the week", "advisor-1", nil)
	require.NoError(t, err)
	assert.Equal(t, compliance.StatusApproved, v.Status)
	repo.AssertExpectations(t)
}

func TestServiceValidateContentStoreFailure(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(assertAnError())

	svc := newTestService(t, repo, nil)

	v, err := svc.ValidateContent(context.Background(), "clean note", "advisor-1", nil)
	require.Error(t, err)
	assert.Nil(t, v)
}

func TestServiceValidateContentWithoutRepo(t *testing.T) {
	svc := newTestService(t, nil, nil)

	v, err := svc.ValidateContent(context.Background(), "clean note", "advisor-1", nil)
	require.NoError(t, err)
	require.NotNil(t, v)
}

func TestServiceQuickCheckCacheHit(t *testing.T) {
	cached := &QuickCheckResult{IsCompliant: false, Issues: []string{"cached issue"}, RiskLevel: compliance.RiskHigh}
	cache := new(MockQuickCheckCache)
	cache.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(cached, true, nil)

	svc := newTestService(t, nil, cache)

	r, err := svc.QuickComplianceCheck(context.Background(), "whatever")
	require.NoError(t, err)
	assert.Equal(t, *cached, r)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestServiceQuickCheckCacheMiss(t *testing.T) {
	cache := new(MockQuickCheckCache)
	cache.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(nil, false, nil)
	cache.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("compliance.QuickCheckResult")).Return(nil)

	svc := newTestService(t, nil, cache)

	r, err := svc.QuickComplianceCheck(context.Background(), "i recommend this fund")
	require.NoError(t, err)
	assert.False(t, r.IsCompliant)
	cache.AssertExpectations(t)
}

func TestServiceQuickCheckCacheErrorIsIgnored(t *testing.T) {
	cache := new(MockQuickCheckCache)
	cache.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(nil, false, assertAnError())
	cache.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(assertAnError())

	svc := newTestService(t, nil, cache)

	r, err := svc.QuickComplianceCheck(context.Background(), "a clean note")
	require.NoError(t, err)
	assert.True(t, r.IsCompliant)
}

func TestServiceApproveValidation(t *testing.T) {
	stored := newStoredValidation(compliance.StatusPending)

	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
	repo.On("Update", mock.Anything, stored).Return(nil)

	svc := newTestService(t, repo, nil)

	v, err := svc.ApproveValidation(context.Background(), stored.ID, "reviewer-1")
	require.NoError(t, err)
	assert.Equal(t, compliance.StatusApproved, v.Status)
	assert.Equal(t, "reviewer-1", v.ApprovalWorkflow.ApprovedBy)
	repo.AssertExpectations(t)
}

func TestServiceApproveRejectedValidation(t *testing.T) {
	stored := newStoredValidation(compliance.StatusRejected)

	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

	svc := newTestService(t, repo, nil)

	_, err := svc.ApproveValidation(context.Background(), stored.ID, "reviewer-1")
	require.Error(t, err)
	assert.True(t, domainerrors.IsType(err, domainerrors.ErrorTypeCompliance))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestServiceRejectValidation(t *testing.T) {
	stored := newStoredValidation(compliance.StatusRequiresModification)

	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
	repo.On("Update", mock.Anything, stored).Return(nil)

	svc := newTestService(t, repo, nil)

	v, err := svc.RejectValidation(context.Background(), stored.ID, "reviewer-2")
	require.NoError(t, err)
	assert.Equal(t, compliance.StatusRejected, v.Status)
}

func TestServiceReviewWithoutRepo(t *testing.T) {
	svc := newTestService(t, nil, nil)

	_, err := svc.ApproveValidation(context.Background(), uuid.New(), "reviewer-1")
	require.Error(t, err)
	assert.True(t, domainerrors.IsType(err, domainerrors.ErrorTypeInternal))
}

func TestServiceListValidationsClampsPaging(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListByAdvisor", mock.Anything, "advisor-1", 20, 0).Return([]*compliance.ContentValidation{}, nil)

	svc := newTestService(t, repo, nil)

	_, err := svc.ListValidations(context.Background(), "advisor-1", -5, -1)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func newStoredValidation(status compliance.ValidationStatus) *compliance.ContentValidation {
	v := &compliance.ContentValidation{
		ID:        uuid.New(),
		ContentID: uuid.New(),
		AdvisorID: "advisor-1",
		Status:    status,
	}
	v.AppendAudit(compliance.NewAuditEntry(compliance.AuditCreated, "system"))
	return v
}

func assertAnError() error {
	return domainerrors.NewInternalError("boom")
}
