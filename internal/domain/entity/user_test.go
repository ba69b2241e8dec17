package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUser_CheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &User{Password: string(hash)}
	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestUser_CheckPassword_Guest(t *testing.T) {
	// У гостей нет парольного входа, даже если поле почему-то заполнено
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	guest := &User{IsGuest: true, Password: string(hash)}
	assert.False(t, guest.CheckPassword("secret123"))

	empty := &User{}
	assert.False(t, empty.CheckPassword(""))
}

func TestUser_BeforeSave_HashesPlaintext(t *testing.T) {
	user := &User{Email: "test@example.com", Password: "plaintext"}
	require.NoError(t, user.BeforeSave(nil))

	assert.NotEqual(t, "plaintext", user.Password)
	assert.True(t, user.CheckPassword("plaintext"))

	// Повторное сохранение не перехеширует уже захешированный пароль
	hashed := user.Password
	require.NoError(t, user.BeforeSave(nil))
	assert.Equal(t, hashed, user.Password)
}

func TestUser_BeforeSave_EmptyPassword(t *testing.T) {
	// Гости сохраняются без пароля
	user := &User{IsGuest: true}
	require.NoError(t, user.BeforeSave(nil))
	assert.Equal(t, "", user.Password)
}

func TestUser_AvgWPM(t *testing.T) {
	user := &User{}
	assert.Equal(t, 0, user.AvgWPM(), "без заездов среднее равно нулю")

	user.TotalWPM = 150
	user.TestsTaken = 3
	assert.Equal(t, 50, user.AvgWPM())
}

func TestUser_IsAdmin(t *testing.T) {
	assert.False(t, (&User{Role: "user"}).IsAdmin())
	assert.True(t, (&User{Role: "admin"}).IsAdmin())
}
