// Package intent parses raw model replies into structured intents.
//
// The model is asked to answer with a JSON object naming a service, a
// target, and parameters. Replies are defensive-normalised (one layer of
// markdown code fences is stripped) and then decoded. Malformed replies
// never surface as errors; they degrade to a chat-only intent carrying
// the whole reply as response text.
package intent
