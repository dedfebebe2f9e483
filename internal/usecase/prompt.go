package usecase

import (
	"fmt"
	"strings"

	"sales-practice-api/internal/domain/model"
)

const defaultScenario = "General sales conversation"

// coachSystemPrompt frames the analysis call; it is independent from the
// roleplay persona prompt.
const coachSystemPrompt = "You are an expert sales coach providing detailed feedback on sales conversations."

// PersonaPrompt renders the system message that keeps the model in the
// customer role. Pure: same context in, same prompt out.
func PersonaPrompt(ctx model.SessionContext) string {
	scenario := ctx.Scenario
	if scenario == "" {
		scenario = defaultScenario
	}
	return fmt.Sprintf(`You are a professional sales coach AI helping a salesperson practice their skills.

SCENARIO DETAILS:
- Product/Service: %s
- Customer Profile: %s
- Scenario: %s

YOUR ROLE:
You will act as the CUSTOMER in this sales roleplay. Simulate a realistic customer interaction based on the profile provided. You should:

1. Stay in character as the customer throughout the conversation
2. Ask relevant questions about the product/service
3. Raise realistic objections based on the customer profile
4. Show varying levels of interest and engagement
5. Challenge the salesperson appropriately
6. Provide realistic responses that help the salesperson practice

CUSTOMER BEHAVIOR GUIDELINES:
- Be realistic and authentic to the customer profile
- Don't make it too easy - provide appropriate challenges
- Ask questions that real customers would ask
- Express concerns or objections naturally
- Show interest when the salesperson makes good points
- Respond based on the customer's likely knowledge level and needs

Remember: You are the CUSTOMER, not the sales coach. The salesperson is practicing on you.`,
		ctx.Product, ctx.CustomerProfile, scenario)
}

// AnalysisPrompt renders the critique request over the non-system transcript.
// User turns are labeled Salesperson, assistant turns Customer.
func AnalysisPrompt(transcript []model.ChatMessage, ctx model.SessionContext) string {
	lines := make([]string, 0, len(transcript))
	for _, m := range transcript {
		speaker := "Customer"
		if m.Role == "user" {
			speaker = "Salesperson"
		}
		lines = append(lines, speaker+": "+m.Content)
	}
	scenario := ctx.Scenario
	if scenario == "" {
		scenario = defaultScenario
	}
	return fmt.Sprintf(`You are an expert sales coach. Analyze this sales conversation and provide detailed feedback.

CONVERSATION:
%s

CONTEXT:
- Product: %s
- Customer Profile: %s
- Scenario: %s

Please provide a comprehensive analysis covering:

1. **Overall Performance** (1-10 rating)
2. **Strengths** - What the salesperson did well
3. **Areas for Improvement** - Specific areas to work on
4. **Communication Style** - Tone, clarity, professionalism
5. **Product Knowledge** - How well they demonstrated understanding
6. **Objection Handling** - How they addressed customer concerns
7. **Engagement & Rapport** - Connection with the customer
8. **Closing Technique** - Effectiveness of closing attempts
9. **Specific Recommendations** - Actionable advice for improvement
10. **Key Takeaways** - Main lessons from this practice session

Be constructive, specific, and provide actionable feedback that will help improve their sales skills.`,
		strings.Join(lines, "\n\n"), ctx.Product, ctx.CustomerProfile, scenario)
}
