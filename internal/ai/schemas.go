package ai

// Response schemas the engine validates model output against. Embedded
// rather than stored in the database: a schema lookup failure would turn
// into a hard error, and this pipeline is required to degrade instead.

const taskBatchSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "minItems": 4,
  "maxItems": 6,
  "items": {
    "type": "object",
    "required": ["title", "description", "difficulty", "estimated_hours", "skills", "reward_credits"],
    "properties": {
      "title": {"type": "string", "minLength": 1},
      "description": {"type": "string", "minLength": 1},
      "difficulty": {"type": "string", "enum": ["Beginner", "Intermediate", "Advanced"]},
      "estimated_hours": {"type": "string", "minLength": 1},
      "skills": {
        "type": "array",
        "minItems": 2,
        "maxItems": 4,
        "items": {"type": "string", "minLength": 1}
      },
      "reward_credits": {"type": "number"}
    }
  }
}`

const characterReportSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["strengths", "growth_areas", "technical_profile", "character_traits", "pairing_recommendations", "confidence"],
  "properties": {
    "strengths": {"type": "array", "items": {"type": "string"}},
    "growth_areas": {"type": "array", "items": {"type": "string"}},
    "technical_profile": {
      "type": "object",
      "required": ["primary_stack", "seniority"],
      "properties": {
        "primary_stack": {"type": "array", "items": {"type": "string"}},
        "secondary_stack": {"type": "array", "items": {"type": "string"}},
        "seniority": {"type": "string", "enum": ["junior", "mid", "senior"]}
      }
    },
    "interests": {"type": "array", "items": {"type": "string"}},
    "estimated_age_bracket": {"type": "string", "enum": ["<18", "18-24", "25-34", "35-44", "45+", "unknown"]},
    "character_traits": {"type": "array", "items": {"type": "string"}},
    "pairing_recommendations": {
      "type": "object",
      "properties": {
        "education": {"type": "array", "items": {"type": "string"}},
        "tasks": {"type": "array", "items": {"type": "string"}},
        "teammates": {"type": "array", "items": {"type": "string"}}
      }
    },
    "confidence": {"type": "number", "minimum": 0, "maximum": 1}
  }
}`
