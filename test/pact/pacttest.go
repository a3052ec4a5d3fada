//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "petify-api"
	ConsumerName = "petify-storefront"

	StateCatalogBaseline = "catalog baseline"
	StateCategoryExists  = "dog category cat-dog exists"
	StateCategoryMissing = "no category with id missing-category"
	StateProductsListed  = "dog food products are listed"
	StateBreederApproved = "an approved seller offers an approved pet"
)

const (
	ExistingCategoryID = "cat-dog"
	MissingCategoryID  = "missing-category"
	ExistingPetType    = "dog"
	ExistingSubcat     = "Food"
	ExampleProductName = "Pact Kibble"
	ExampleSellerName  = "Pact Breeder"
	ExampleBreed       = "Labrador"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
