package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

// stubLogRepo подменяет журнал ETL в тестах и записывает вызовы
type stubLogRepo struct {
	lastRunModes []string
	lastRun      *models.ETLRunLog
	lastRunErr   error

	createdRunID string
	createdMode  string
	nextLogID    int

	successID    int
	successFacts int
	failureID    int
	failureMsg   string
}

func (s *stubLogRepo) CreateLogEntry(runID, mode string, startTime time.Time) (int, error) {
	s.createdRunID = runID
	s.createdMode = mode
	return s.nextLogID, nil
}

func (s *stubLogRepo) UpdateLogEntrySuccess(id int, endTime time.Time, recordsExtracted, recordsCleaned, duplicatesDropped, factsLoaded int) error {
	s.successID = id
	s.successFacts = factsLoaded
	return nil
}

func (s *stubLogRepo) UpdateLogEntryFailure(id int, endTime time.Time, errorMessage string) error {
	s.failureID = id
	s.failureMsg = errorMessage
	return nil
}

func (s *stubLogRepo) GetLastSuccessfulRun(mode string) (*models.ETLRunLog, error) {
	s.lastRunModes = append(s.lastRunModes, mode)
	return s.lastRun, s.lastRunErr
}

func newTestRunner(repo models.ETLLogRepository) *ETLRunner {
	return &ETLRunner{
		logger:     utils.NewSilentLogger(),
		etlLogRepo: repo,
	}
}

func TestLogPreviousRunQueriesJournal(t *testing.T) {
	repo := &stubLogRepo{
		lastRun: &models.ETLRunLog{
			Mode:                 "health",
			EndTime:              time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
			Status:               "success",
			RecordsCleaned:       120,
			FactsLoaded:          120,
			ExecutionTimeSeconds: 1.5,
		},
	}

	runner := newTestRunner(repo)
	runner.logPreviousRun("health")

	assert.Equal(t, []string{"health"}, repo.lastRunModes)
}

func TestLogPreviousRunNoHistory(t *testing.T) {
	// Отсутствие успешных запусков не ошибка
	repo := &stubLogRepo{}
	runner := newTestRunner(repo)

	runner.logPreviousRun("sales")
	assert.Equal(t, []string{"sales"}, repo.lastRunModes)
}

func TestLogPreviousRunWithoutJournal(t *testing.T) {
	// Без настроенной базы данных журнал не опрашивается
	runner := newTestRunner(nil)
	runner.logPreviousRun("health")
}

func TestStartAndFinishRunLog(t *testing.T) {
	repo := &stubLogRepo{nextLogID: 7}
	runner := newTestRunner(repo)

	runID, logID := runner.startRunLog("health", time.Now())
	require.NotEmpty(t, runID)
	assert.Equal(t, runID, repo.createdRunID)
	assert.Equal(t, "health", repo.createdMode)
	assert.Equal(t, 7, logID)

	runner.succeedRun(logID, 100, 98, 2, 98)
	assert.Equal(t, 7, repo.successID)
	assert.Equal(t, 98, repo.successFacts)

	err := runner.failRun(logID, assert.AnError)
	require.Error(t, err)
	assert.Equal(t, 7, repo.failureID)
	assert.Equal(t, assert.AnError.Error(), repo.failureMsg)
}
