package constant

// NarrationPivotLine is the fixed bridge sentence between the spoken intro
// and the key-moment clip. The script stage always overwrites whatever the
// model generated for the pivot with this literal.
const NarrationPivotLine = "動画を使ってそのポイントを見てみましょう"

const (
	SelfAssessmentExtractionPromptV1 = `You are an assistant for a cooking coach app. The learner recorded a short voice memo rating their own dish. Below is the transcript.

Extract the learner's self-ratings on four axes (taste, appearance, texture, aroma), each as an integer from 1 to 5, plus a one-sentence summary of how they felt about the result.

If the transcript does not mention an axis, use 3 for it. Write the summary in Japanese.

Respond with ONLY this JSON format, no other text:
{"taste": 3, "appearance": 3, "texture": 3, "aroma": 3, "self_assessment": "..."}

Transcript:
`

	VideoAnalysisPromptV1 = `You are a professional cooking instructor reviewing a learner's cooking video. The dish being cooked is: %s

Watch the whole video and produce:
1. "cooking_events": a chronological list of notable moments. Each entry has "timestamp" ("MM:SS" position in the video), "event_label" (short Japanese phrase for what the cook does), and "environment_state" (short Japanese phrase for pan/heat/ingredient state at that moment).
2. "key_moment_seconds": the single timestamp (seconds from the start, as a number) where the most coaching-relevant mistake or decisive technique appears. It must fall within the video.
3. "diagnosis": 2-3 Japanese sentences describing the root technical problem observed at that moment.

The video is %.1f seconds long. The key moment must be between 0 and that duration.

Respond with ONLY this JSON format, no other text:
{"cooking_events": [{"timestamp": "00:00", "event_label": "...", "environment_state": "..."}], "key_moment_seconds": 0, "diagnosis": "..."}
`

	CoachingTextPromptV1 = `You are a warm, encouraging cooking coach writing a short message to %s, a home cook who just finished attempt %d at making %s.

Diagnosis from their cooking video:
%s

What the learner said about their own result:
%s

Where the learner stands right now (skills and recurring mistakes):
%s

Reference knowledge (cooking principles relevant to this situation):
%s

The learner's recent history:
%s

Write a coaching message as four parts, all in Japanese:
- "problem": the one concrete problem to fix, stated kindly.
- "skill": the underlying skill or principle to learn.
- "next_action": one specific thing to do differently next time.
- "success_signal": how the learner can tell, with their own senses, that they got it right next time.

HARD RULE: do not use any digits or numbers anywhere in the four fields. Express quantities with words (e.g. "強火" not "200度", "少し" not "5分").

Respond with ONLY this JSON format, no other text:
{"problem": "...", "skill": "...", "next_action": "...", "success_signal": "..."}
`

	CoachingTextRetryPromptV1 = `Your previous answer contained digits, which are not allowed. Rewrite the same coaching message with every quantity expressed in words instead of digits. Respond with ONLY the JSON object, same format, no other text.`

	NarrationScriptPromptV1 = `You are writing the voiceover script for a short coaching video. The learner will hear the intro, then watch a clip of their own cooking at the key moment, with your commentary over it.

Coaching message the script must match:
problem: %s
skill: %s
next_action: %s
success_signal: %s

The clip shows the key moment, about %.0f seconds into the learner's video. What is visible on screen there:
%s

Diagnosis of that moment:
%s

Write three parts, all in Japanese, spoken-style:
- "intro": 2-3 sentences greeting the learner and naming the problem and the skill to build.
- "pivot": one short sentence bridging into the clip.
- "clip": 2-4 sentences narrating what the learner can see on screen at the key moment, pointing at the visible cues above, ending with how to recognize success next time. This part MUST restate the success signal above.

Respond with ONLY this JSON format, no other text:
{"intro": "...", "pivot": "...", "clip": "..."}
`

	NarrationScriptRetryPromptV1 = `Your previous clip narration did not mention the success signal. Rewrite the script so the "clip" part explicitly tells the learner the success signal above. Respond with ONLY the JSON object, same format, no other text.`
)
