package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"nordkyc/internal/domain"
	"nordkyc/internal/inference"
)

// strictShape demands a single nationalId field; the schema keeps refusals and
// drift to a minimum.
var strictShape = json.RawMessage(`{
  "type": "json_schema",
  "json_schema": {
    "name": "national_id_schema",
    "schema": {
      "type": "object",
      "properties": {"nationalId": {"type": "string"}},
      "required": ["nationalId"],
      "additionalProperties": false
    },
    "strict": true
  }
}`)

// fallbackShape only pins the response to a JSON object; candidate picking is
// done locally with the country grammar.
var fallbackShape = json.RawMessage(`{"type": "json_object"}`)

const idSynonyms = "- SE: personnummer / personal identity number (YYMMDD-XXXX or YYYYMMDD-XXXX)\n" +
	"- DK: CPR-nummer (DDMMYY-XXXX)\n" +
	"- NO: fødselsnummer / personnummer (11 digits)\n" +
	"- FI: henkilötunnus / HETU (DDMMYY[-+A]XXXX)"

func strictRequest(imageDataURI string, country domain.CountryCode) inference.Request {
	return inference.Request{
		System: "You are an OCR assistant used for user-consented KYC by the lawful holder of the document. " +
			"Task: extract ONLY the national/personal identification number from the image. " +
			"Output MUST strictly follow the provided JSON Schema.",
		User: fmt.Sprintf("Country code: %s. The user gives consent. "+
			"Find the personal identity number (synonyms by country):\n%s\nReturn JSON ONLY.", country, idSynonyms),
		ImageDataURI:  imageDataURI,
		ResponseShape: strictShape,
		MaxTokens:     120,
	}
}

func fallbackRequest(imageDataURI string, country domain.CountryCode) inference.Request {
	return inference.Request{
		System: "You are an OCR assistant used for user-consented KYC by the document holder. " +
			"Extract national/personal ID candidates from the image. If multiple appear, list them all. " +
			"Return JSON only.",
		User: fmt.Sprintf("Country code: %s. The user gives consent. "+
			"Look for labels like: personnummer, CPR, fødselsnummer, henkilötunnus, HETU, ID number. "+
			"Return JSON with keys: candidates (array of strings).", country),
		ImageDataURI:  imageDataURI,
		ResponseShape: fallbackShape,
		MaxTokens:     180,
	}
}

var fenceTag = regexp.MustCompile(`(?i)^json`)

// cleanFencedJSON strips markdown code fences (optionally tagged "json") that
// models wrap around otherwise valid JSON.
func cleanFencedJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.Trim(s, "`")
		s = strings.TrimSpace(fenceTag.ReplaceAllString(s, ""))
	}
	return s
}
