package llm

import "fmt"

const verifyInstruction = `You are verifying whether a person is a real and active professor. Use the provided context (Wikipedia, Semantic Scholar, web links). Return STRICT JSON with keys: verified (bool), confidence_score (0-100), summary (string).`

const verifyExample = `{
  "verified": true,
  "confidence_score": 87,
  "summary": "Professor is active in AI research at MIT with recent publications."
}`

// VerifyPrompt renders the full verification prompt: task instruction,
// compiled evidence context, and one worked JSON example.
func VerifyPrompt(compiledContext string) string {
	return fmt.Sprintf("%s\n\nCONTEXT\n-----\n%s\n\nJSON ONLY RESPONSE EXAMPLE:\n%s", verifyInstruction, compiledContext, verifyExample)
}
