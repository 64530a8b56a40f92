package iam

import (
	"context"

	"github.com/google/uuid"

	"github.com/domuslabs/domus/pkg/pg"
	"github.com/domuslabs/domus/pkg/tenant"
)

// Repository executes IAM queries against the current request's tenant
// handle. It holds no connection of its own: every method pulls the handle
// from the context, so a repository value is safe to share across requests.
type Repository struct{}

// NewRepository returns a stateless IAM repository.
func NewRepository() *Repository { return &Repository{} }

const userColumns = `id, email, name, password_hash, active, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user with the given bcrypt hash.
func (r *Repository) CreateUser(ctx context.Context, email, name, passwordHash string) (*User, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	row := db.QueryRow(ctx,
		`INSERT INTO users (id, email, name, password_hash, active)
		 VALUES ($1, $2, $3, $4, TRUE)
		 RETURNING `+userColumns,
		uuid.New(), email, name, passwordHash)
	u, err := scanUser(row)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// GetUser returns a user by ID.
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return scanUser(db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetUserByEmail returns a user by email, for login.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return scanUser(db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// ListUsers returns every user in the tenant, newest first.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeactivateUser soft-disables a user.
func (r *Repository) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return err
	}
	tag, err := db.Exec(ctx, `UPDATE users SET active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CreateRole inserts a role.
func (r *Repository) CreateRole(ctx context.Context, name, description string) (*Role, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var role Role
	err = db.QueryRow(ctx,
		`INSERT INTO roles (id, name, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, description, created_at`,
		uuid.New(), name, description).
		Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// ListRoles returns every role in the tenant.
func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx, `SELECT id, name, description, created_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// AssignRole links a user to a role. Assigning twice is a no-op.
func (r *Repository) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, role_id) DO NOTHING`, userID, roleID)
	return err
}

// RevokeRole removes a user-role link.
func (r *Repository) RevokeRole(ctx context.Context, userID, roleID uuid.UUID) error {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	return err
}

// GrantAction allows a role to perform a module action.
func (r *Repository) GrantAction(ctx context.Context, roleID, moduleActionID uuid.UUID) error {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx,
		`INSERT INTO role_module_actions (role_id, module_action_id) VALUES ($1, $2)
		 ON CONFLICT (role_id, module_action_id) DO NOTHING`, roleID, moduleActionID)
	return err
}

// RevokeAction removes a role-action grant.
func (r *Repository) RevokeAction(ctx context.Context, roleID, moduleActionID uuid.UUID) error {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx,
		`DELETE FROM role_module_actions WHERE role_id = $1 AND module_action_id = $2`,
		roleID, moduleActionID)
	return err
}

// ListModules returns the module catalog with actions.
func (r *Repository) ListModules(ctx context.Context) ([]Module, []ModuleAction, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	rows, err := db.Query(ctx, `SELECT id, name FROM modules ORDER BY name`)
	if err != nil {
		return nil, nil, err
	}
	var modules []Module
	for rows.Next() {
		var m Module
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			rows.Close()
			return nil, nil, err
		}
		modules = append(modules, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	rows, err = db.Query(ctx, `SELECT id, module_id, action FROM module_actions ORDER BY action`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var actions []ModuleAction
	for rows.Next() {
		var a ModuleAction
		if err := rows.Scan(&a.ID, &a.ModuleID, &a.Action); err != nil {
			return nil, nil, err
		}
		actions = append(actions, a)
	}
	return modules, actions, rows.Err()
}

// UserModuleActions returns every "Module_Action" string the user's roles
// collectively allow. This is the permission-set query behind the
// authorization cache.
func (r *Repository) UserModuleActions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx,
		`SELECT DISTINCT m.name || '_' || ma.action
		 FROM user_roles ur
		 JOIN role_module_actions rma ON rma.role_id = ur.role_id
		 JOIN module_actions ma ON ma.id = rma.module_action_id
		 JOIN modules m ON m.id = ma.module_id
		 WHERE ur.user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return perms, nil
}
