package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ticketbox/ticketbox/internal/model"
	"github.com/ticketbox/ticketbox/internal/utils"
)

// UserRepo provides access to the User table and the Customer/Organizer
// membership tables.  Role upgrades run inside the caller's transaction
// because they are always a side effect of a larger write (creating an
// event or an order).
type UserRepo struct{ DB *sql.DB }

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a bcrypt-hashed password and a CUSTOMER
// role plus its membership row, returning the new id.  Duplicate emails
// map to ErrEmailExists (MySQL error 1062).
func (r *UserRepo) Create(ctx context.Context, fullName, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO `User` (Full_Name, Email, PasswordHash, User_Type) VALUES (?,?,?,?)",
		fullName, email, hash, string(model.RoleCustomer))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO Customer (User_Id) VALUES (?)", id); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.  sql.ErrNoRows passes
// through when the email is unknown.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT User_Id, Full_Name, Email, PasswordHash, COALESCE(Phone_Number,''), COALESCE(Gender,''), Birth_Date, User_Type FROM `User` WHERE Email = ? LIMIT 1",
		email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT User_Id, Full_Name, Email, PasswordHash, COALESCE(Phone_Number,''), COALESCE(Gender,''), Birth_Date, User_Type FROM `User` WHERE User_Id = ? LIMIT 1",
		id))
}

// UpdateProfile updates the basic profile fields.  The password is not
// touched here.  It returns ErrUserNotFound when the id does not exist.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, fullName, phone, gender string, birthDate *time.Time) error {
	var exists uint64
	err := r.DB.QueryRowContext(ctx, "SELECT User_Id FROM `User` WHERE User_Id = ?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE `User` SET Full_Name = ?, Phone_Number = ?, Gender = ?, Birth_Date = ? WHERE User_Id = ?",
		fullName, phone, gender, birthDate, id)
	return err
}

// EnsureRoleTx guarantees that the user holds the target capability,
// upgrading User_Type to BOTH when they previously held only the other
// single role and inserting the membership row (Customer or Organizer)
// when missing.  It is idempotent: repeating the call with the same
// target is a no-op after the first.  It must run inside the caller's
// transaction; no explicit row lock is taken, which is acceptable
// because only the denormalized label races, never financial state.
func (r *UserRepo) EnsureRoleTx(ctx context.Context, tx *sql.Tx, userID uint64, target model.Role) (model.Role, error) {
	if target != model.RoleCustomer && target != model.RoleOrganizer {
		return "", ErrInvalidRole
	}
	var raw string
	err := tx.QueryRowContext(ctx, "SELECT User_Type FROM `User` WHERE User_Id = ?", userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	current, _ := model.ParseRole(raw)
	next := current.Grant(target)

	membership := "Customer"
	if target == model.RoleOrganizer {
		membership = "Organizer"
	}
	var memberID uint64
	err = tx.QueryRowContext(ctx, "SELECT User_Id FROM "+membership+" WHERE User_Id = ?", userID).Scan(&memberID)
	if err == sql.ErrNoRows {
		if _, err := tx.ExecContext(ctx, "INSERT INTO "+membership+" (User_Id) VALUES (?)", userID); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	if next != current {
		if _, err := tx.ExecContext(ctx, "UPDATE `User` SET User_Type = ? WHERE User_Id = ?", string(next), userID); err != nil {
			return "", err
		}
	}
	return next, nil
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	var role string
	var birth sql.NullTime
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Phone, &u.Gender, &birth, &role)
	if err != nil {
		return model.User{}, err
	}
	if birth.Valid {
		t := birth.Time
		u.BirthDate = &t
	}
	u.Role, _ = model.ParseRole(role)
	return u, nil
}
