package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/salary"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/database"
)

type structureRepository struct {
	db *database.DB
}

func NewStructureRepository(db *database.DB) salary.StructureRepository {
	return &structureRepository{db: db}
}

func (r *structureRepository) GetByEmployeeID(ctx context.Context, employeeID string, companyID string) (salary.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, wage, pf_rate, professional_tax, created_at, updated_at
		FROM salary_structures
		WHERE employee_id = $1 AND company_id = $2
	`

	var s salary.SalaryStructure
	err := q.QueryRow(ctx, query, employeeID, companyID).Scan(
		&s.ID, &s.EmployeeID, &s.CompanyID, &s.Wage, &s.PFRate, &s.ProfessionalTax, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return salary.SalaryStructure{}, salary.ErrStructureNotFound
		}
		return salary.SalaryStructure{}, fmt.Errorf("failed to get salary structure: %w", err)
	}

	components, err := r.componentsByStructureID(ctx, s.ID)
	if err != nil {
		return salary.SalaryStructure{}, err
	}
	s.Components = components

	return s, nil
}

func (r *structureRepository) componentsByStructureID(ctx context.Context, structureID string) ([]salary.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, structure_id, name, computation_type, value, amount, sort_order
		FROM salary_components
		WHERE structure_id = $1
		ORDER BY sort_order
	`

	rows, err := q.Query(ctx, query, structureID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary components: %w", err)
	}
	defer rows.Close()

	var components []salary.SalaryComponent
	for rows.Next() {
		var c salary.SalaryComponent
		if err := rows.Scan(
			&c.ID, &c.StructureID, &c.Name, &c.ComputationType, &c.Value, &c.Amount, &c.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary component: %w", err)
		}
		components = append(components, c)
	}

	return components, nil
}

// Save upserts the structure row and replaces its components wholesale.
// Callers wrap it in a transaction; a partial component write must never
// survive.
func (r *structureRepository) Save(ctx context.Context, structure salary.SalaryStructure) (salary.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_structures (id, employee_id, company_id, wage, pf_rate, professional_tax)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id) DO UPDATE SET
			wage = EXCLUDED.wage,
			pf_rate = EXCLUDED.pf_rate,
			professional_tax = EXCLUDED.professional_tax,
			updated_at = NOW()
		RETURNING id, employee_id, company_id, wage, pf_rate, professional_tax, created_at, updated_at
	`

	var saved salary.SalaryStructure
	err := q.QueryRow(ctx, query,
		uuid.NewString(), structure.EmployeeID, structure.CompanyID,
		structure.Wage, structure.PFRate, structure.ProfessionalTax,
	).Scan(
		&saved.ID, &saved.EmployeeID, &saved.CompanyID, &saved.Wage, &saved.PFRate, &saved.ProfessionalTax,
		&saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return salary.SalaryStructure{}, fmt.Errorf("failed to save salary structure: %w", err)
	}

	// Components are recreated wholesale on every save, never patched.
	if _, err := q.Exec(ctx, `DELETE FROM salary_components WHERE structure_id = $1`, saved.ID); err != nil {
		return salary.SalaryStructure{}, fmt.Errorf("failed to clear salary components: %w", err)
	}

	insert := `
		INSERT INTO salary_components (id, structure_id, name, computation_type, value, amount, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, structure_id, name, computation_type, value, amount, sort_order
	`

	for _, c := range structure.Components {
		var inserted salary.SalaryComponent
		err := q.QueryRow(ctx, insert,
			uuid.NewString(), saved.ID, c.Name, c.ComputationType, c.Value, c.Amount, c.SortOrder,
		).Scan(
			&inserted.ID, &inserted.StructureID, &inserted.Name, &inserted.ComputationType,
			&inserted.Value, &inserted.Amount, &inserted.SortOrder,
		)
		if err != nil {
			return salary.SalaryStructure{}, fmt.Errorf("failed to insert salary component: %w", err)
		}
		saved.Components = append(saved.Components, inserted)
	}

	return saved, nil
}
