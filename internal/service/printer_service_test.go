package service_test

import (
	"context"
	"testing"

	"ebucks/internal/dto"
	"ebucks/internal/infra"
	"ebucks/internal/model"
	"ebucks/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinterService_CRUD(t *testing.T) {
	repo := &stubPrinterRepo{}
	svc := service.NewPrinterService(repo, infra.NewHTMLPrinter("TEST STORE"), &fakeJobs{})
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreatePrinterRequest{Name: "Front", IPAddress: "10.0.0.7", Assignment: model.AssignmentPOS})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", created.IPAddress)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.AssignmentPOS, list[0].Assignment)

	require.NoError(t, svc.Delete(ctx, uuid.MustParse(created.ID)))
	err = svc.Delete(ctx, uuid.MustParse(created.ID))
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPrinterService_TestPrintQueuesOneJob(t *testing.T) {
	jobs := &fakeJobs{}
	svc := service.NewPrinterService(&stubPrinterRepo{}, infra.NewHTMLPrinter("TEST STORE"), jobs)

	html, err := svc.TestPrint(context.Background(), "10.0.0.9")
	require.NoError(t, err)
	assert.Contains(t, html, "TEST0000")
	require.Len(t, jobs.prints, 1)
	assert.Equal(t, "10.0.0.9", jobs.prints[0].PrinterIP)
}
