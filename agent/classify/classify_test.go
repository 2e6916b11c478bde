package classify

import (
	"strings"
	"testing"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

func TestClassifyRepositoryReference(t *testing.T) {
	t.Parallel()

	got := Classify("check out github.com/foo-bar/baz please")
	if got.Kind != contractx.InputRepository {
		t.Fatalf("Classify() kind = %q, want %q", got.Kind, contractx.InputRepository)
	}
	if got.Value != "github.com/foo-bar/baz" {
		t.Fatalf("Classify() value = %q, want matched substring verbatim", got.Value)
	}
	if got.Confidence != contractx.ConfidenceHigh {
		t.Fatalf("Classify() confidence = %q, want high", got.Confidence)
	}
}

func TestClassifyContractAddress(t *testing.T) {
	t.Parallel()

	addr := "0x4f9fd6be4a90f2620860d680c0d4d5fb53d1a825"
	got := Classify("what about " + addr + "?")
	if got.Kind != contractx.InputContractAddress {
		t.Fatalf("Classify() kind = %q, want %q", got.Kind, contractx.InputContractAddress)
	}
	if got.Value != addr {
		t.Fatalf("Classify() value = %q, want %q", got.Value, addr)
	}
}

func TestClassifyRepositoryWinsOverAddress(t *testing.T) {
	t.Parallel()

	input := "github.com/foo/bar holds 0x4f9fd6be4a90f2620860d680c0d4d5fb53d1a825"
	got := Classify(input)
	if got.Kind != contractx.InputRepository {
		t.Fatalf("Classify() kind = %q, want repository precedence", got.Kind)
	}
}

func TestClassifyShortHexIsNotAnAddress(t *testing.T) {
	t.Parallel()

	got := Classify("0xdeadbeef")
	if got.Kind != contractx.InputProjectName {
		t.Fatalf("Classify() kind = %q, want project_name fallback", got.Kind)
	}
}

func TestClassifyProjectNameFallback(t *testing.T) {
	t.Parallel()

	got := Classify("  Some Token Project  ")
	if got.Kind != contractx.InputProjectName {
		t.Fatalf("Classify() kind = %q, want %q", got.Kind, contractx.InputProjectName)
	}
	if got.Value != "Some Token Project" {
		t.Fatalf("Classify() value = %q, want trimmed input", got.Value)
	}
	if got.Confidence != contractx.ConfidenceMedium {
		t.Fatalf("Classify() confidence = %q, want medium", got.Confidence)
	}
}

func TestClassifyEmptyInputIsLowConfidence(t *testing.T) {
	t.Parallel()

	got := Classify(strings.Repeat(" ", 5))
	if got.Kind != contractx.InputProjectName || got.Confidence != contractx.ConfidenceLow {
		t.Fatalf("Classify() = %+v, want low-confidence project_name", got)
	}
}
