package classify

// Prompts for the two classification stages. Both run at temperature 0 so
// repeated runs over the same candidate are deterministic.

const gateSystemPrompt = "You are an AI tasked with evaluating tweets to determine if they describe " +
	"fire damages or destruction in the United States. Be inclusive: If the tweet is plausibly about " +
	"fire damages or destruction in the USA, mark as 'yes'."

const gateUserPrompt = `You are given the content of a tweet. Determine if it describes a fire incident in the United States that likely caused damage to physical structures (such as homes, apartments, offices, commercial buildings, factories, or infrastructure). The fire may have resulted in structural damage or destruction, due to causes like electrical faults, negligence, accidents, natural disasters (e.g., wildfires), or arson. Be inclusive: If the tweet suggests a fire incident with possible or likely damage to structures, even if not 100%% explicit, respond with 'yes'. Respond with 'yes' if the tweet is about a fire incident in the USA that could have caused damage to physical structures. Otherwise, respond with 'no'.

Tweet content: %s
URL: %s
Only use the provided content for your evaluation. Do not infer or assume details not present in the text, but err on the side of inclusion if the fire incident is plausible.`

const extractSystemPrompt = "You are an AI that analyzes fire-related tweets to extract fire scores and " +
	"location information. Always respond in the exact format specified."

const extractUserPrompt = `Analyze the following tweet about fire incidents in the United States and provide:
1. A fire-relatedness score from 0-10 (0=not related, 10=definitely fire-related)
2. The US state where the fire occurred (use ONLY the state name like California, Texas, New York, Arizona, etc. - do NOT include 'County' in the state name)
3. The county where the fire occurred (use ONLY the county name, not the state name)

Respond in this exact format:
Score: [0-10]
State: [State name only or N/A]
County: [County name only or N/A]

Examples:
- If tweet mentions 'Arizona', State should be 'Arizona', County should be the specific county or N/A
- If tweet mentions 'Los Angeles County, California', State should be 'California', County should be 'Los Angeles'
- If location cannot be determined, use N/A for both state and county.

Tweet content: %s`
