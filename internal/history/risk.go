package history

import (
	"strings"

	"github.com/maxbolgarin/retrospec/internal/model"
)

var (
	highRiskKeywords   = []string{"breaking", "migration", "security", "critical", "hotfix", "revert"}
	mediumRiskKeywords = []string{"refactor", "restructure", "rename", "merge"}
)

// ClassifyRisk derives a risk tier from change-size statistics and commit
// message keywords. Rules are evaluated top to bottom, first match wins:
//
//  1. total > 500 or fileCount > 20            -> high
//  2. message contains a high-risk keyword     -> high
//  3. total > 100 or fileCount > 8             -> medium
//  4. message contains a medium-risk keyword   -> medium
//  5. otherwise                                -> low
//
// The keyword match is case-insensitive. Rule order is part of the contract.
func ClassifyRisk(total, fileCount int, message string) model.RiskLevel {
	msg := strings.ToLower(message)

	if total > 500 || fileCount > 20 {
		return model.RiskHigh
	}
	if containsAny(msg, highRiskKeywords) {
		return model.RiskHigh
	}
	if total > 100 || fileCount > 8 {
		return model.RiskMedium
	}
	if containsAny(msg, mediumRiskKeywords) {
		return model.RiskMedium
	}
	return model.RiskLow
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
