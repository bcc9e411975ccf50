package oracle

// AdjudicationPrompt captures the instructions sent with every candidate
// batch. Keep updates centralized here so it is easy to tweak without hunting
// through call sites.
const AdjudicationPrompt = `You are an expert at deciding whether a person from an external registry is the same individual as one of the candidate seminar speakers below.

You receive one reference person (name, affiliation, academic field) and a list of candidate speakers from the same field, each with an id, name, affiliation, and a heuristic similarity score from 0 to 100.

Rules:

- Match only when you are confident the reference and the candidate are the same real person. Name variants (nicknames, initials, middle names, transliterations) of the same person at a plausible affiliation are a match.

- Different people with similar names are NOT a match. When in doubt, do not match.

- More than one candidate may be the same person (the registry can contain the same individual under two affiliations). Report every candidate you are confident about.

- Confidence must be one of "high", "medium", or "low".

You must respond ONLY with a JSON object like:
{"match_found": true, "matches": [{"id": "candidate id", "confidence": "high", "reasoning": "short explanation"}]}

If no candidate matches, respond with {"match_found": false, "matches": []}.

Now adjudicate this reference:`
