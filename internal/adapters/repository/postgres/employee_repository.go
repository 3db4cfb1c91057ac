package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/gramv/onbdev-sub001/internal/core/employee"
	pgdb "github.com/gramv/onbdev-sub001/internal/platform/db/postgres"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `
        id, property_id, manager_id, first_name, last_name, email, position,
        onboarding_status,
        personal_info, w4_data, direct_deposit, health_insurance, emergency_contacts,
        created_at, updated_at`

// formDataColumns はフォーム種別と更新先カラムの対応です。
// ここに無い種別は employee.ErrUnknownFormType として拒否します。
var formDataColumns = map[employee.FormType]string{
	employee.FormTypePersonalInfo:      "personal_info",
	employee.FormTypeW4:                "w4_data",
	employee.FormTypeDirectDeposit:     "direct_deposit",
	employee.FormTypeHealthInsurance:   "health_insurance",
	employee.FormTypeEmergencyContacts: "emergency_contacts",
}

// EmployeeRepository は PostgreSQL を利用した従業員レコード永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// FindByID は ID で従業員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT`+employeeColumns+`
          FROM employees
         WHERE id = $1
         LIMIT 1`, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, err
	}
	return found, nil
}

// UpdateOnboardingStatus は従業員のオンボーディング進捗を更新します。
func (r *EmployeeRepository) UpdateOnboardingStatus(ctx context.Context, id string, status employee.OnboardingStatus, updatedAt time.Time) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE employees
           SET onboarding_status = $1,
               updated_at = $2
         WHERE id = $3`,
		string(status),
		updatedAt,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// UpdateFormData はフォーム種別に対応する JSONB ドキュメントを置き換えます。
func (r *EmployeeRepository) UpdateFormData(ctx context.Context, id string, formType employee.FormType, data map[string]any, updatedAt time.Time) error {
	column, ok := formDataColumns[formType]
	if !ok {
		return employee.ErrUnknownFormType
	}

	doc, err := jsonbValue(data)
	if err != nil {
		return err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE employees
           SET `+column+` = $1,
               updated_at = $2
         WHERE id = $3`,
		doc,
		updatedAt,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		emp                  employee.Employee
		status               string
		rawPersonalInfo      []byte
		rawW4Data            []byte
		rawDirectDeposit     []byte
		rawHealthInsurance   []byte
		rawEmergencyContacts []byte
		createdAt            time.Time
		updatedAt            time.Time
	)

	if err := row.Scan(
		&emp.ID,
		&emp.PropertyID,
		&emp.ManagerID,
		&emp.FirstName,
		&emp.LastName,
		&emp.Email,
		&emp.Position,
		&status,
		&rawPersonalInfo,
		&rawW4Data,
		&rawDirectDeposit,
		&rawHealthInsurance,
		&rawEmergencyContacts,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	for raw, dst := range map[*[]byte]*map[string]any{
		&rawPersonalInfo:      &emp.PersonalInfo,
		&rawW4Data:            &emp.W4Data,
		&rawDirectDeposit:     &emp.DirectDeposit,
		&rawHealthInsurance:   &emp.HealthInsurance,
		&rawEmergencyContacts: &emp.EmergencyContacts,
	} {
		doc, err := unmarshalJSONB(*raw)
		if err != nil {
			return nil, err
		}
		*dst = doc
	}

	emp.OnboardingStatus = employee.OnboardingStatus(status)
	emp.CreatedAt = createdAt.UTC()
	emp.UpdatedAt = updatedAt.UTC()
	return &emp, nil
}
