package llm

// Template describes the conversation frame sent with every enrichment
// request. It is constructed once at startup and shared read-only across all
// concurrent tasks.
type Template struct {
	// Name identifies the template in logs.
	Name string
	// System is the system-role message instructing the backend how to
	// structure its answer.
	System string
}

// NewsParserTemplate returns the template that instructs the backend to
// extract a structured record from raw article text. The field names in the
// instruction match the JSON tags on news.Article exactly.
func NewsParserTemplate() Template {
	return Template{
		Name: "news_parser",
		System: `You are a news article analyst. Given the plain text of a news article,
respond with a single JSON object and nothing else. The object must have
exactly these fields:

  "dateOfPublication": the article's publication date (string),
  "timeOfPublication": the article's publication time (string),
  "title": the article headline (string),
  "category": one broad category such as "Politics & Governance" or
    "Science & Technology" (string),
  "summaryOfNewsArticle": a concise summary (string),
  "keyTakeAways": key points (array of strings),
  "namedEntities": array of {"name", "whatIsThisEntity",
    "whyIsThisEntityRelevantToTheArticle"},
  "importantDates": array of {"dateMentionedInArticle",
    "descriptionOfWhyDateIsRelevant"},
  "importantTimeframes": array of {"approximateTimeFrameStart",
    "approximateTimeFrameEnd", "descriptionOfWhyTimeFrameIsRelevant"},
  "tags": topic tags (array of strings).

Use "unknown" for dates and times the article does not state. Do not wrap the
JSON in markdown fences.`,
	}
}
