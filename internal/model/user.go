package model

import "time"

// User mirrors the `User` table.  The repository layer performs the
// single normalization step from raw rows into this record so handlers
// never probe alternate column casings.
//
// Fields:
//  ID           – User.User_Id primary key.
//  FullName     – User.Full_Name display name.
//  Email        – User.Email unique address.
//  PasswordHash – User.PasswordHash bcrypt digest (never serialized).
//  Phone        – User.Phone_Number contact number.
//  Gender       – User.Gender free-form label.
//  BirthDate    – User.Birth_Date (nullable).
//  Role         – User.User_Type as a closed Role value.
type User struct {
	ID           uint64     `json:"user_id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Phone        string     `json:"phone_number,omitempty"`
	Gender       string     `json:"gender,omitempty"`
	BirthDate    *time.Time `json:"birthday,omitempty"`
	Role         Role       `json:"user_type"`
}
