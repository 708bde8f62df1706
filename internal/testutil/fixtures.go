package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"stockfolio/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// MustDate parses a YYYY-MM-DD string into a midnight-UTC time.
func MustDate(t *testing.T, day string) time.Time {
	t.Helper()

	parsed, err := time.ParseInLocation("2006-01-02", day, time.UTC)
	if err != nil {
		t.Fatalf("bad date fixture %q: %v", day, err)
	}
	return parsed
}

// CreateTestLot creates a lot for the given user. unitCost is in cents and
// purchaseDate is a YYYY-MM-DD string.
func CreateTestLot(t *testing.T, db *gorm.DB, userID, ticker string, quantity float64, unitCost int64, purchaseDate string) *models.Lot {
	t.Helper()

	lot := &models.Lot{
		UserID:       userID,
		Ticker:       ticker,
		CompanyName:  fmt.Sprintf("%s Inc", ticker),
		Quantity:     quantity,
		UnitCost:     unitCost,
		PurchaseDate: MustDate(t, purchaseDate),
	}
	if err := db.Create(lot).Error; err != nil {
		t.Fatalf("failed to create test lot: %v", err)
	}
	return lot
}
