package research

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

type fakeAuditor struct {
	narrative string
	err       error
	gotName   string
	gotFiles  []string
}

func (f *fakeAuditor) AuditContract(_ context.Context, name string, files []string) (string, error) {
	f.gotName = name
	f.gotFiles = files
	return f.narrative, f.err
}

func TestContractAnalyzerAnalyze(t *testing.T) {
	t.Parallel()

	fetcher := stubFetcher{src: contractx.ContractSource{
		ContractName: "Widget",
		Files: map[string]string{
			"src/Widget.sol":            "contract Widget {}",
			"src/WidgetVault.sol":       "contract WidgetVault {}",
			"src/Admin.sol":             "contract Admin {}",
			"@openzeppelin/Ownable.sol": "contract Ownable {}",
		},
	}}
	auditor := &fakeAuditor{narrative: "No critical findings."}

	analyzer, err := NewContractAnalyzer(fetcher, auditor)
	if err != nil {
		t.Fatal(err)
	}

	ev, err := analyzer.Analyze(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if ev.Narrative != "No critical findings." {
		t.Errorf("narrative = %q", ev.Narrative)
	}
	// Vendored and unrelated files excluded, remaining paths sorted.
	if len(ev.Source) != 2 || ev.Source[0] != "src/Widget.sol" || ev.Source[1] != "src/WidgetVault.sol" {
		t.Errorf("source paths = %+v", ev.Source)
	}
	if auditor.gotName != "Widget" || len(auditor.gotFiles) != 2 {
		t.Errorf("auditor input name=%q files=%d", auditor.gotName, len(auditor.gotFiles))
	}
	if auditor.gotFiles[0] != "contract Widget {}" {
		t.Errorf("file order does not follow sorted paths: %+v", auditor.gotFiles)
	}
}

func TestContractAnalyzerFetchFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	auditor := &fakeAuditor{}
	analyzer, err := NewContractAnalyzer(stubFetcher{err: boom}, auditor)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := analyzer.Analyze(context.Background(), testAddress); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if auditor.gotFiles != nil {
		t.Error("auditor ran despite fetch failure")
	}
}

func TestContractAnalyzerAuditFailure(t *testing.T) {
	t.Parallel()

	fetcher := stubFetcher{src: contractx.ContractSource{
		ContractName: "Widget",
		Files:        map[string]string{"src/Widget.sol": "contract Widget {}"},
	}}
	analyzer, err := NewContractAnalyzer(fetcher, &fakeAuditor{err: contractx.ErrGeneration})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := analyzer.Analyze(context.Background(), testAddress); !errors.Is(err, contractx.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}
