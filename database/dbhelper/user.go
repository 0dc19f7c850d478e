package dbhelper

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/ray-remotestate/fastfood/models"
)

const userColumns = `id, name, email, password, role, phone_number, created_at`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.PhoneNumber, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, role, phone_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		u.Name, u.Email, u.Password, u.Role, u.PhoneNumber).Scan(&u.ID, &u.CreatedAt)
	return duplicate(err, "Duplicate field value entered")
}

func (s *Store) IsUserExists(ctx context.Context, email string) (bool, error) {
	var count int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE LOWER(email) = LOWER($1)`, email).Scan(&count)
	return count > 0, err
}

// GetUserByEmail returns the user including the password hash, or nil when
// no user has that email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.DB.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE LOWER(email) = LOWER($1)`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "User not found")
	}

	u.Addresses, err = listAddresses(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) UpdateUserDetails(ctx context.Context, id uuid.UUID, name, email, phone string) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE users SET name = $2, email = $3, phone_number = $4
		WHERE id = $1`, id, name, email, phone)
	if err != nil {
		return duplicate(err, "Duplicate field value entered")
	}
	return mustAffect(res, "User not found")
}

func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE users SET password = $2 WHERE id = $1`, id, hashedPassword)
	if err != nil {
		return err
	}
	return mustAffect(res, "User not found")
}

// AddAddress stores a new address. The first address of a user, or one flagged
// default, becomes the single default address.
func (s *Store) AddAddress(ctx context.Context, userID uuid.UUID, addr *models.Address) error {
	return s.tx(ctx, func(tx *sql.Tx) error {
		var existing int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_addresses WHERE user_id = $1`, userID).
			Scan(&existing); err != nil {
			return err
		}
		if existing == 0 {
			addr.IsDefault = true
		}
		if addr.IsDefault {
			if _, err := tx.ExecContext(ctx, `
				UPDATE user_addresses SET is_default = FALSE
				WHERE user_id = $1 AND is_default`, userID); err != nil {
				return err
			}
		}
		addr.UserID = userID
		return tx.QueryRowContext(ctx, `
			INSERT INTO user_addresses (user_id, street, city, state, zip_code, is_default)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			userID, addr.Street, addr.City, addr.State, addr.ZipCode, addr.IsDefault).Scan(&addr.ID)
	})
}

func listAddresses(ctx context.Context, db SQLExecutor, userID uuid.UUID) ([]models.Address, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, street, city, state, zip_code, is_default
		FROM user_addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := make([]models.Address, 0)
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Street, &a.City, &a.State, &a.ZipCode, &a.IsDefault); err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}
