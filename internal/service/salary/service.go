package salary

import (
	"context"
	"fmt"

	"github.com/workzen-hq/workzen-backend-go/internal/domain/employee"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/salary"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/database"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/jwt"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/validator"
	"github.com/workzen-hq/workzen-backend-go/internal/repository/postgresql"
)

type salaryService struct {
	db            *database.DB
	runTx         func(ctx context.Context, fn func(context.Context) error) error
	structureRepo salary.StructureRepository
	employeeRepo  employee.EmployeeRepository
}

func NewSalaryService(
	db *database.DB,
	structureRepo salary.StructureRepository,
	employeeRepo employee.EmployeeRepository,
) salary.SalaryService {
	return &salaryService{
		db:            db,
		structureRepo: structureRepo,
		employeeRepo:  employeeRepo,
	}
}

func (s *salaryService) inTx(ctx context.Context, fn func(context.Context) error) error {
	if s.runTx != nil {
		return s.runTx(ctx, fn)
	}
	return postgresql.WithTransaction(ctx, s.db, fn)
}

func (s *salaryService) SaveStructure(ctx context.Context, req salary.SaveStructureRequest) (salary.StructureResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return salary.StructureResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return salary.StructureResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return salary.StructureResponse{}, err
	}

	structure := salary.SalaryStructure{
		EmployeeID:      emp.ID,
		CompanyID:       companyID,
		Wage:            req.Wage.Round(2),
		PFRate:          salary.DefaultPFRate,
		ProfessionalTax: salary.DefaultProfessionalTax,
	}
	if req.PFRate != nil {
		structure.PFRate = *req.PFRate
	}
	if req.ProfessionalTax != nil {
		structure.ProfessionalTax = req.ProfessionalTax.Round(2)
	}

	components := make([]salary.SalaryComponent, 0, len(req.Components))
	for _, c := range req.Components {
		components = append(components, salary.SalaryComponent{
			Name:            c.Name,
			ComputationType: salary.ComputationType(c.ComputationType),
			Value:           c.Value,
			SortOrder:       c.SortOrder,
		})
	}

	structure.Components = ResolveAllComponents(components, structure.Wage)
	if !ValidateComponentsTotal(structure.Components, structure.Wage) {
		return salary.StructureResponse{}, validator.ValidationErrors{
			{Field: "components", Message: "resolved amounts exceed the wage"},
		}
	}

	var saved salary.SalaryStructure
	err = s.inTx(ctx, func(txCtx context.Context) error {
		var txErr error
		saved, txErr = s.structureRepo.Save(txCtx, structure)
		return txErr
	})
	if err != nil {
		return salary.StructureResponse{}, fmt.Errorf("failed to save salary structure: %w", err)
	}

	return toStructureResponse(saved), nil
}

func (s *salaryService) GetStructure(ctx context.Context, employeeID string) (salary.StructureResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return salary.StructureResponse{}, err
	}

	structure, err := s.structureRepo.GetByEmployeeID(ctx, employeeID, companyID)
	if err != nil {
		return salary.StructureResponse{}, err
	}

	return toStructureResponse(structure), nil
}

func toStructureResponse(s salary.SalaryStructure) salary.StructureResponse {
	resp := salary.StructureResponse{
		ID:              s.ID,
		EmployeeID:      s.EmployeeID,
		Wage:            s.Wage,
		PFRate:          s.PFRate,
		ProfessionalTax: s.ProfessionalTax,
		Components:      make([]salary.ComponentResponse, 0, len(s.Components)),
	}
	for _, c := range s.Components {
		resp.Components = append(resp.Components, salary.ComponentResponse{
			ID:              c.ID,
			Name:            c.Name,
			ComputationType: string(c.ComputationType),
			Value:           c.Value,
			Amount:          c.Amount,
			SortOrder:       c.SortOrder,
		})
	}
	return resp
}
