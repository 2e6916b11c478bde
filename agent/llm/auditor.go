package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

const (
	// Window sizes are in characters, not tokens. Overlap keeps findings that
	// straddle a boundary visible in at least one window.
	auditChunkSize    = 12000
	auditChunkOverlap = 800
	auditMaxChunks    = 16
)

// Auditor runs the two-phase security review: each source window is audited
// in isolation, then the per-window reviews are synthesized into one
// narrative. A failed window does not abort the audit; its review is replaced
// with an inline error marker the synthesis prompt knows how to treat.
type Auditor struct {
	chunkRunner     compose.Runnable[map[string]any, *schema.Message]
	synthesisRunner compose.Runnable[map[string]any, *schema.Message]
}

func NewAuditor(ctx context.Context, chatModel einomodel.BaseChatModel, chunkPrompt, synthesisPrompt string) (*Auditor, error) {
	chunkRunner, err := compileTextGraph(ctx, chatModel, chunkPrompt, "auditor.chunk_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile audit chunk graph: %v", contractx.ErrGeneration, err)
	}
	synthesisRunner, err := compileTextGraph(ctx, chatModel, synthesisPrompt, "auditor.synthesis_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile audit synthesis graph: %v", contractx.ErrGeneration, err)
	}
	return &Auditor{chunkRunner: chunkRunner, synthesisRunner: synthesisRunner}, nil
}

func (a *Auditor) AuditContract(ctx context.Context, name string, files []string) (string, error) {
	source := strings.TrimSpace(strings.Join(files, "\n\n"))
	if source == "" {
		return "", fmt.Errorf("%w: no source to audit", contractx.ErrValidation)
	}

	chunks, dropped := chunkSource(source)
	if dropped > 0 {
		log.Warn().Int("bytes", dropped).Str("contract", name).Msg("source exceeds audit window budget, tail not audited")
	}
	reviews := make([]string, 0, len(chunks))
	failed := 0
	for i, chunk := range chunks {
		review, err := a.auditChunk(ctx, name, i+1, len(chunks), chunk)
		if err != nil {
			failed++
			log.Warn().Err(err).Int("segment", i+1).Str("contract", name).Msg("audit segment failed")
			review = fmt.Sprintf("[segment %d/%d could not be audited: %v]", i+1, len(chunks), err)
		}
		reviews = append(reviews, review)
	}
	if failed == len(chunks) {
		return "", fmt.Errorf("%w: all %d audit segments failed", contractx.ErrGeneration, len(chunks))
	}

	return a.synthesize(ctx, name, reviews)
}

func (a *Auditor) auditChunk(ctx context.Context, name string, index, total int, chunk string) (string, error) {
	payload := map[string]any{
		"contract": name,
		"segment":  index,
		"of":       total,
		"source":   chunk,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal audit chunk payload: %v", contractx.ErrValidation, err)
	}

	msg, err := a.chunkRunner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return "", fmt.Errorf("%w: audit chunk invoke: %v", contractx.ErrGeneration, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: audit chunk returned empty content", contractx.ErrSchemaViolation)
	}
	return strings.TrimSpace(msg.Content), nil
}

func (a *Auditor) synthesize(ctx context.Context, name string, reviews []string) (string, error) {
	payload := map[string]any{
		"contract": name,
		"reviews":  reviews,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal audit synthesis payload: %v", contractx.ErrValidation, err)
	}

	msg, err := a.synthesisRunner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return "", fmt.Errorf("%w: audit synthesis invoke: %v", contractx.ErrGeneration, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: audit synthesis returned empty content", contractx.ErrSchemaViolation)
	}
	return strings.TrimSpace(msg.Content), nil
}

// chunkSource windows the joined source with overlap. The chunk count is
// capped so a pathological bundle cannot fan out into unbounded model calls,
// and every chunk stays within auditChunkSize. The second return value is the
// number of trailing bytes left unaudited once the cap is hit.
func chunkSource(source string) ([]string, int) {
	if len(source) <= auditChunkSize {
		return []string{source}, 0
	}

	var chunks []string
	step := auditChunkSize - auditChunkOverlap
	covered := 0
	for start := 0; start < len(source); start += step {
		end := start + auditChunkSize
		if end >= len(source) {
			chunks = append(chunks, source[start:])
			covered = len(source)
			break
		}
		chunks = append(chunks, source[start:end])
		covered = end
		if len(chunks) == auditMaxChunks {
			break
		}
	}
	return chunks, len(source) - covered
}
