package session

import (
	"fmt"
	"strings"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
	statex "github.com/pranshurastogi/CryptoSentinel/agent/state"
)

const tradingPromptText = "Would you like me to buy this token for you? (yes/no)"

func renderAnalysisReply(st *statex.AnalysisState) string {
	if !st.Assessment.IsPresent() {
		return "Analysis could not be completed. Please try a different query."
	}
	a := st.Assessment.Value

	var b strings.Builder
	b.WriteString("Investment Assessment\n")
	b.WriteString(renderScore("Code Activity", a.CodeActivity))
	b.WriteString(renderScore("Smart Contract Risk", a.ContractRisk))
	b.WriteString(renderScore("Token Performance", a.TokenPerformance))
	b.WriteString(renderScore("Social Sentiment", a.SocialSentiment))
	fmt.Fprintf(&b, "Risk/Reward: %.1f/5 | Confidence: %.0f/100\n", a.RiskReward, a.Confidence)
	fmt.Fprintf(&b, "Recommendation: %s", a.Recommendation)

	if st.Stage.Suspended() {
		b.WriteString("\n\n")
		b.WriteString(tradingPromptText)
	}
	return b.String()
}

func renderScore(label string, card contractx.ScoreCard) string {
	if card.Error != "" {
		return fmt.Sprintf("- %s: %s\n", label, card.Error)
	}
	if card.Comment != "" {
		return fmt.Sprintf("- %s: %.1f/10 (%s)\n", label, card.Rating, card.Comment)
	}
	return fmt.Sprintf("- %s: %.1f/10\n", label, card.Rating)
}

func renderTradeReply(st *statex.AnalysisState) string {
	if st.TradeDecision == contractx.TradeDeclined {
		return "Understood, no purchase will be made. This session is now closed."
	}
	if strings.HasPrefix(st.TradeResult, contractx.TradeErrorPrefix) {
		return st.TradeResult
	}
	return "Trade executed. " + st.TradeResult
}
