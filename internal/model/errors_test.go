package model

import (
	"errors"
	"strings"
	"testing"
)

func TestAPIError_ImplementsError(t *testing.T) {
	var err error = NewItemNotFoundError("item-1")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("APIError should satisfy errors.As")
	}
	if apiErr.Code != ErrCodeItemNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrCodeItemNotFound)
	}
	if !strings.Contains(err.Error(), ErrCodeItemNotFound) {
		t.Errorf("Error() should contain the code, got %q", err.Error())
	}
}

func TestNewMissingFieldsError_NamesAllFields(t *testing.T) {
	err := NewMissingFieldsError("title", "date", "contactEmail")

	for _, field := range []string{"title", "date", "contactEmail"} {
		if !strings.Contains(err.Message, field) {
			t.Errorf("message should contain %q, got %q", field, err.Message)
		}
	}
}

func TestValidItemType(t *testing.T) {
	if !ValidItemType(ItemTypeLost) || !ValidItemType(ItemTypeFound) {
		t.Error("lost/found should be valid item types")
	}
	if ValidItemType("stolen") || ValidItemType("") {
		t.Error("unknown values should be invalid item types")
	}
}

func TestValidItemStatus(t *testing.T) {
	for _, s := range []ItemStatus{ItemStatusActive, ItemStatusClaimed, ItemStatusReturned} {
		if !ValidItemStatus(s) {
			t.Errorf("%q should be a valid item status", s)
		}
	}
	if ValidItemStatus("lost") || ValidItemStatus("") {
		t.Error("unknown values should be invalid item statuses")
	}
}

func TestValidClaimStatus(t *testing.T) {
	for _, s := range []ClaimStatus{ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected} {
		if !ValidClaimStatus(s) {
			t.Errorf("%q should be a valid claim status", s)
		}
	}
	if ValidClaimStatus("accepted") || ValidClaimStatus("") {
		t.Error("unknown values should be invalid claim statuses")
	}
}
