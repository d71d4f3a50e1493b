package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"bookshelf/internal/domain"
)

// ErrLastAdmin rejects deleting the only remaining admin account. Checked
// inside the deletion transaction so a concurrent demotion cannot slip past.
var ErrLastAdmin = errors.New("cannot delete the last remaining admin account")

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,name,email,password_hash,role,created_at,COALESCE(updated_at,'') AS updated_at`

func (r *UserRepo) Create(u *domain.User) error {
	_, err := r.DB.Exec(`INSERT INTO users(id,name,email,password_hash,role) VALUES(?,?,?,?,?)`,
		u.ID, u.Name, u.Email, u.Hash, u.Role)
	return err
}

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile persists name/email/role changes for one user.
func (r *UserRepo) UpdateProfile(u *domain.User) error {
	_, err := r.DB.Exec(`UPDATE users SET name=?,email=?,role=?,updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		u.Name, u.Email, u.Role, u.ID)
	return err
}

func (r *UserRepo) List(limit, offset int) ([]domain.User, error) {
	var out []domain.User
	err := r.DB.Select(&out, `SELECT `+userCols+` FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	return out, err
}

func (r *UserRepo) Count() (int, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM users`)
	return n, err
}

func (r *UserRepo) CountAdmins() (int, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE role=?`, domain.RoleAdmin)
	return n, err
}

// DeleteCascade removes a user inside one transaction: owned books keep
// existing with ownership nulled, library entries go away, then the row
// itself. Rolls back whole on the last-admin guard or any failure.
func (r *UserRepo) DeleteCascade(userID string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var u domain.User
	if err := tx.Get(&u, `SELECT id,role FROM users WHERE id=?`, userID); err != nil {
		return err // sql.ErrNoRows when already gone
	}
	if u.Role == domain.RoleAdmin {
		var admins int
		if err := tx.Get(&admins, `SELECT COUNT(*) FROM users WHERE role=?`, domain.RoleAdmin); err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if _, err := tx.Exec(`UPDATE books SET user_id=NULL,updated_at=CURRENT_TIMESTAMP WHERE user_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM user_books WHERE user_id=?`, userID); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM users WHERE id=?`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}
