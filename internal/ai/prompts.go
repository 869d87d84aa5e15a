package ai

const extractionPrompt = `You are given a pay stub or payslip document. Extract its fields and reply with ONLY a JSON object, no markdown fences, no prose.

The object may contain these keys (omit any the document does not show):
  "amount":        number, the net pay for the period
  "grossAmount":   number, the gross pay for the period
  "tax":           number, total tax withheld for the period
  "deductions":    number, total non-tax deductions for the period
  "date":          string, pay date in YYYY-MM-DD format
  "source":        string, the employer or payer name
  "currency":      string, ISO 4217 code such as "USD" or "EUR"
  "jobTitle":      string
  "department":    string
  "workedHours":   number, hours worked in the period
  "taxCode":       string
  "ytdGross":      number, year-to-date gross pay
  "ytdNet":        number, year-to-date net pay
  "notes":         string, anything notable that fits no other field
  "lineItems":     array of {"name": string, "amount": number, "ytd": number, "type": "earning"|"deduction"|"benefit"}
  "disbursements": array of {"bankCode": string, "bankName": string, "accountNo": string, "amount": number}

Rules:
- Use plain numbers, never strings, for monetary values. Strip currency symbols and thousands separators.
- Do not guess values that are not visible in the document.
- If the document is not a pay stub, reply with {}.`

const insightPrompt = `You are a personal finance assistant. Below is a JSON digest of a person's salary history: totals, keep rate (net as a percentage of gross), momentum (percent change between the earliest and latest thirds of the history), hourly rate, and yearly and monthly rollups.

Write a short plain-text summary for the person, two or three paragraphs at most. Mention the overall trend, anything unusual in the recent months, and one practical observation. Do not use markdown, bullet points, or headings. Do not repeat raw numbers the person already sees on their dashboard; interpret them.`
