package service

import (
	"context"
	"errors"
	"fmt"

	"ebucks/internal/dto"
	"ebucks/internal/infra"
	"ebucks/internal/model"
	"ebucks/internal/repository"
	"ebucks/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PrinterService interface {
	List(ctx context.Context) ([]dto.PrinterResponse, error)
	Create(ctx context.Context, req dto.CreatePrinterRequest) (*dto.PrinterResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// TestPrint queues a sample voucher for the printer at ip and returns
	// its printable.
	TestPrint(ctx context.Context, ip string) (string, error)
}

type printerService struct {
	repo    repository.PrinterRepository
	printer ArtifactGenerator
	jobs    JobDispatcher
}

func NewPrinterService(repo repository.PrinterRepository, printer ArtifactGenerator, jobs JobDispatcher) PrinterService {
	return &printerService{repo: repo, printer: printer, jobs: jobs}
}

func (s *printerService) List(ctx context.Context) ([]dto.PrinterResponse, error) {
	printers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PrinterResponse, len(printers))
	for i, p := range printers {
		resp[i] = printerResponse(p)
	}
	return resp, nil
}

func (s *printerService) Create(ctx context.Context, req dto.CreatePrinterRequest) (*dto.PrinterResponse, error) {
	p := &model.Printer{Name: req.Name, IPAddress: req.IPAddress, Assignment: req.Assignment}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := printerResponse(*p)
	return &resp, nil
}

func (s *printerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: printer %s", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (s *printerService) TestPrint(ctx context.Context, ip string) (string, error) {
	sample := infra.VoucherPrint{ID: "TEST0000", Amount: decimal.Zero, Title: "TEST PRINT", OwnerName: ip}
	if s.jobs != nil {
		payload := worker.PrintJobPayload{Assignment: "TEST", PrinterIP: ip, Vouchers: []infra.VoucherPrint{sample}}
		if err := s.jobs.EnqueuePrint(ctx, payload); err != nil {
			return "", err
		}
	}
	// Enqueue above already ran, so printout only renders.
	return printout(ctx, s.printer, nil, "TEST", []infra.VoucherPrint{sample}, nil), nil
}

func printerResponse(p model.Printer) dto.PrinterResponse {
	return dto.PrinterResponse{ID: p.ID.String(), Name: p.Name, IPAddress: p.IPAddress, Assignment: p.Assignment}
}
