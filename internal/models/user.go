// Package models содержит доменные структуры CarryDrop: пользователей,
// бронирования доставки багажа, размещения партнёров и платежи,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// MemberRole — уровень членства пользователя.
type MemberRole string

const (
	// RoleBronze — уровень по умолчанию.
	RoleBronze MemberRole = "BRONZE"
	// RoleSilver — от 3 оплаченных бронирований за последний год.
	RoleSilver MemberRole = "SILVER"
	// RoleGold — от 10 оплаченных бронирований за последний год.
	RoleGold MemberRole = "GOLD"
	// RoleRed — только по приглашению, автоматически не пересчитывается.
	RoleRed MemberRole = "RED"
)

// Valid сообщает, является ли значение известным уровнем членства.
func (r MemberRole) Valid() bool {
	switch r {
	case RoleBronze, RoleSilver, RoleGold, RoleRed:
		return true
	}
	return false
}

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID         string     // Уникальный идентификатор пользователя
	Email        string     // Электронная почта (уникальная)
	Name         *string    // Имя пользователя, может отсутствовать
	PasswordHash *string    // Хэш пароля, отсутствует у внешних аккаунтов
	Role         MemberRole // Уровень членства
	IsAdmin      bool       // Признак администратора
	CreatedAt    time.Time  // Дата регистрации
}

// Requester — идентичность вызывающего, полученная из JWT.
type Requester struct {
	UserUID string
	Email   string
	IsAdmin bool
}

// RoleChange описывает изменение уровня членства одного пользователя.
type RoleChange struct {
	UserUID      string     `json:"user_uid"`
	Email        string     `json:"email"`
	From         MemberRole `json:"from"`
	To           MemberRole `json:"to"`
	PaidLastYear int        `json:"paid_last_year"`
}
