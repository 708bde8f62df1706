package services

import (
	"encoding/json"
	"testing"

	"stockfolio/internal/models"
	"stockfolio/internal/pagination"
	"stockfolio/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	t.Run("records_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)
		user := testutil.CreateTestUser(t, db)

		svc.Log(user.ID, "BUY", "lot", "lot-123", "127.0.0.1", map[string]interface{}{
			"ticker":   "AAPL",
			"quantity": 5,
		})

		var entries []models.AuditLog
		if err := db.Find(&entries).Error; err != nil {
			t.Fatalf("failed to read audit logs: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		entry := entries[0]
		if entry.Action != "BUY" || entry.ResourceID != "lot-123" || entry.IPAddress != "127.0.0.1" {
			t.Errorf("unexpected entry: %+v", entry)
		}

		var changes map[string]interface{}
		if err := json.Unmarshal([]byte(entry.Changes), &changes); err != nil {
			t.Fatalf("changes not valid JSON: %v", err)
		}
		if changes["ticker"] != "AAPL" {
			t.Errorf("expected ticker AAPL in changes, got %v", changes)
		}
	})

	t.Run("nil_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)
		user := testutil.CreateTestUser(t, db)

		svc.Log(user.ID, "LOGIN", "user", user.ID, "", nil)

		var count int64
		db.Model(&models.AuditLog{}).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 entry, got %d", count)
		}
	})
}

func TestGetUserLogs(t *testing.T) {
	t.Run("newest_first_paginated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)
		user := testutil.CreateTestUser(t, db)

		for _, action := range []string{"REGISTER", "BUY", "SELL"} {
			svc.Log(user.ID, action, "lot", "", "", nil)
		}

		page, err := svc.GetUserLogs(user.ID, pagination.PageRequest{Page: 1, PageSize: 10})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 || len(page.Data) != 3 {
			t.Fatalf("expected 3 entries, got total=%d len=%d", page.TotalItems, len(page.Data))
		}
	})

	t.Run("scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		svc.Log(user1.ID, "BUY", "lot", "", "", nil)
		svc.Log(user2.ID, "SELL", "lot", "", "", nil)

		page, err := svc.GetUserLogs(user1.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 || page.Data[0].Action != "BUY" {
			t.Errorf("expected only user1's BUY entry, got %+v", page.Data)
		}
	})
}
