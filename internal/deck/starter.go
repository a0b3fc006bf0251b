package deck

// Starter decks written by `terview decks init`. Kept as plain TOML
// source so the written files stay hand-editable.

// StarterDecks maps deck file names (without extension) to TOML content.
var StarterDecks = map[string]string{
	"behavioral": starterBehavioral,
	"backend":    starterBackend,
}

const starterBehavioral = `name = "Behavioral"

[[questions]]
text = "Tell me about a time you disagreed with a teammate. How did you resolve it?"
keywords = ["disagree", "listen", "compromise", "outcome"]

[[questions]]
text = "Describe a project you are most proud of and your specific contribution."
keywords = ["project", "impact", "role", "result"]

[[questions]]
text = "Tell me about a time you missed a deadline. What happened and what did you change?"
keywords = ["deadline", "communicate", "priorit", "learn"]

[[questions]]
text = "How do you handle receiving critical feedback from a manager or peer?"
keywords = ["feedback", "listen", "improve", "example"]

[[questions]]
text = "Describe a situation where you had to learn a new technology quickly."
keywords = ["learn", "documentation", "practice", "deliver"]

[[questions]]
text = "Tell me about a time you had to make a decision without all the information you wanted."
keywords = ["decision", "risk", "assumption", "data"]

[[questions]]
text = "Give an example of how you mentored or helped a less experienced colleague."
keywords = ["mentor", "pair", "review", "growth"]

[[questions]]
text = "Describe a time you had to push back on scope to protect quality or timelines."
keywords = ["scope", "trade-off", "stakeholder", "quality"]
`

const starterBackend = `name = "Backend Engineering"

[[questions]]
text = "How would you design a rate limiter for a public API?"
keywords = ["token bucket", "sliding window", "redis", "per-user", "429"]

[[questions]]
text = "Explain how an index speeds up a database query and when it can hurt."
keywords = ["b-tree", "scan", "write", "cardinality", "covering"]

[[questions]]
text = "Walk me through what happens when a browser requests a page from your service."
keywords = ["dns", "tcp", "tls", "load balancer", "cache"]

[[questions]]
text = "How do you keep two services' data consistent without distributed transactions?"
keywords = ["outbox", "idempoten", "retry", "eventual", "saga"]

[[questions]]
text = "How would you find and fix a memory leak in a long-running service?"
keywords = ["profil", "heap", "growth", "reference", "monitor"]

[[questions]]
text = "Describe how you would paginate a large, frequently changing result set."
keywords = ["cursor", "offset", "stable", "index"]

[[questions]]
text = "How do you design a retry strategy for calls to a flaky downstream dependency?"
keywords = ["backoff", "jitter", "idempoten", "circuit breaker", "timeout"]

[[questions]]
text = "Explain the trade-offs between SQL and document databases for a new feature."
keywords = ["schema", "transaction", "join", "scal", "query"]

[[questions]]
text = "How would you approach caching for a read-heavy endpoint?"
keywords = ["ttl", "invalidat", "stampede", "stale", "hit rate"]

[[questions]]
text = "What does a good deployment pipeline look like for a backend service?"
keywords = ["ci", "test", "canary", "rollback", "observab"]
`
