// Package prompts builds the fixed prompt templates sent to the
// completion backend. Templates are deterministic: the same inputs
// always produce the same prompt.
package prompts

import (
	"fmt"

	"github.com/maxbolgarin/retrospec/internal/model"
)

const systemPrompt = `You are an expert software engineer specializing in git history analysis, performance investigation and regression triage. Be specific and concise, ground every statement in the provided data and avoid speculation beyond it.`

const commitAnalysisTemplate = `Analyze this git commit and explain its purpose, impact, and potential risks:

Commit Hash: %s
Repository: %s

Diff Content:
%s

Provide:
1. Summary of changes (2-3 sentences)
2. Architectural impact
3. Potential risks or regressions
4. Test recommendations`

const regressionDetectionTemplate = `Analyze this performance data and git history to identify potential regressions:

Performance Metrics: %s

Identify:
1. Any performance regressions
2. Likely commit causing the issue
3. Recommended fix or rollback strategy
4. Impact assessment`

const repairStrategyTemplate = `Generate a repair strategy for this regression:

Regression Analysis: %s

Create:
1. Safe rollback plan or fix strategy
2. Code patch if applicable
3. Testing recommendations
4. Deployment considerations`

// BuildCommitAnalysis builds the four-part commit analysis prompt.
// The diff is expected to be pre-truncated by the caller.
func BuildCommitAnalysis(hash, repoPath, diff string) model.Prompt {
	return model.Prompt{
		SystemPrompt: systemPrompt,
		UserPrompt:   fmt.Sprintf(commitAnalysisTemplate, hash, repoPath, diff),
	}
}

// BuildRegressionDetection builds the regression identification prompt
// around a JSON rendering of the performance data.
func BuildRegressionDetection(performanceJSON string) model.Prompt {
	return model.Prompt{
		SystemPrompt: systemPrompt,
		UserPrompt:   fmt.Sprintf(regressionDetectionTemplate, performanceJSON),
	}
}

// BuildRepairStrategy builds the repair-strategy prompt around a JSON
// rendering of a prior regression analysis.
func BuildRepairStrategy(regressionJSON string) model.Prompt {
	return model.Prompt{
		SystemPrompt: systemPrompt,
		UserPrompt:   fmt.Sprintf(repairStrategyTemplate, regressionJSON),
	}
}
