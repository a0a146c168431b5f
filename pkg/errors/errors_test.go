package errors

import (
	stdErrors "errors"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		silent    bool
		retryable bool
		userMsg   string
		detailsOK bool
	}{
		{code: CodeValidation, userMsg: "invalid input", detailsOK: true},
		{code: CodeInvalidCredential, silent: true, userMsg: "session expired", detailsOK: true},
		{code: CodeNotFound, userMsg: "not found"},
		{code: CodeStateConflict, retryable: true, userMsg: "cart is still loading", detailsOK: true},
		{code: CodeCorruptRecord, silent: true, userMsg: "saved data was reset", detailsOK: true},
		{code: CodeStoreWrite, retryable: true, userMsg: "could not save cart", detailsOK: true},
		{code: CodeDependency, retryable: true, userMsg: "storage unavailable", detailsOK: true},
		{code: CodeInternal, retryable: true, userMsg: "something went wrong"},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.Silent != tt.silent {
			t.Fatalf("code %s expected silent %v got %v", tt.code, tt.silent, meta.Silent)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.UserMessage != tt.userMsg {
			t.Fatalf("code %s expected user message %q got %q", tt.code, tt.userMsg, meta.UserMessage)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.UserMessage != "something went wrong" {
		t.Fatalf("expected internal metadata, got %+v", meta)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing product id")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing product id" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]string{"field": "product_id"})
	if base.Details() == nil {
		t.Fatalf("details not attached")
	}

	cause := stdErrors.New("disk full")
	wrapped := Wrap(CodeStoreWrite, cause, "persist cart")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("wrapped error should unwrap to cause")
	}
	if wrapped.Error() != "STORE_WRITE_FAILED: persist cart" {
		t.Fatalf("unexpected error string %q", wrapped.Error())
	}

	if Wrap(CodeStoreWrite, nil, "persist cart").Unwrap() != nil {
		t.Fatalf("wrapping nil should produce no cause")
	}
}

func TestAsAndHasCode(t *testing.T) {
	err := New(CodeCorruptRecord, "unparseable cart payload")
	if typed := As(err); typed == nil || typed.Code() != CodeCorruptRecord {
		t.Fatalf("As failed to recover typed error")
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatalf("As should reject untyped errors")
	}
	if !HasCode(err, CodeCorruptRecord) {
		t.Fatalf("HasCode should match")
	}
	if HasCode(err, CodeStoreWrite) {
		t.Fatalf("HasCode should not match a different code")
	}
	if HasCode(nil, CodeInternal) {
		t.Fatalf("HasCode on nil should be false")
	}
}
