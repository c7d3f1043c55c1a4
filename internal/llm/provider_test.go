package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeProvider struct{}

func (fakeProvider) GenerateContent(context.Context, string) (string, error) { return "text", nil }
func (fakeProvider) GetProviderName() string                                 { return "fake" }

func TestRegisterAndNewProvider(t *testing.T) {
	RegisterProvider("fake", func() (Provider, error) {
		return fakeProvider{}, nil
	})

	provider, err := NewProvider("fake")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.GetProviderName() != "fake" {
		t.Fatalf("unexpected provider name: %s", provider.GetProviderName())
	}
}

func TestNewProviderUnknown(t *testing.T) {
	if _, err := NewProvider("unknown"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProviderFactoryError(t *testing.T) {
	RegisterProvider("broken", func() (Provider, error) {
		return nil, errors.New("misconfigured")
	})

	if _, err := NewProvider("broken"); err == nil {
		t.Fatal("expected factory error to propagate")
	}
}

func TestProviderErrorFormatting(t *testing.T) {
	withCause := &ProviderError{Provider: "gemini", Code: ErrCodeServiceDown, Message: "down", Err: errors.New("503")}
	if !strings.Contains(withCause.Error(), "503") {
		t.Errorf("expected wrapped cause in message, got %q", withCause.Error())
	}

	withoutCause := &ProviderError{Provider: "gemini", Code: ErrCodeInvalidInput, Message: "empty"}
	if withoutCause.Error() != "gemini error: empty" {
		t.Errorf("unexpected message: %q", withoutCause.Error())
	}
}
