package audit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/arxeon/arxeon-api/app/models"
)

const (
	defaultScore = 5
	defaultLevel = models.MaturityLevelMedium
)

const systemPrompt = `Sei un consulente di marketing digitale di Arxéon, agenzia di Lugano.
Scrivi una valutazione della maturità digitale di un'azienda in italiano,
basata sulle risposte del questionario. Concludi sempre con una riga nel
formato "Punteggio: N/10" (N intero da 0 a 10) e una riga nel formato
"Livello: Basso|Medio|Avanzato".`

// BuildPrompt renders the applicant's answers into the fixed structured
// prompt sent to the text-generation capability.
func BuildPrompt(req *models.AuditRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Azienda: %s\n", req.Company)
	fmt.Fprintf(&b, "Referente: %s\n", req.FullName)
	if req.Website != "" {
		fmt.Fprintf(&b, "Sito web: %s\n", req.Website)
	} else {
		b.WriteString("Sito web: assente\n")
	}
	fmt.Fprintf(&b, "Canali social attivi: %s\n", joinOrNone(req.SocialPlatforms))
	if req.SocialLinks != "" {
		fmt.Fprintf(&b, "Link social: %s\n", req.SocialLinks)
	}
	if req.HasGMB {
		fmt.Fprintf(&b, "Profilo Google My Business: presente (%s)\n", req.GMBLink)
	} else {
		b.WriteString("Profilo Google My Business: assente\n")
	}
	fmt.Fprintf(&b, "Campagne pubblicitarie attive: %s\n", joinOrNone(req.AdsPlatforms))
	fmt.Fprintf(&b, "Obiettivo principale: %s\n", req.MainObjective)
	if req.Notes != "" {
		fmt.Fprintf(&b, "Note: %s\n", req.Notes)
	}
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "nessuno"
	}
	return strings.Join(items, ", ")
}

// FallbackEvaluation produces the deterministic templated evaluation used
// when the text-generation capability is unavailable or fails. The score is
// a simple presence heuristic over the applicant's answers.
func FallbackEvaluation(req *models.AuditRequest) string {
	score := fallbackScore(req)
	level := LevelForScore(score)

	var strengths, gaps []string
	if req.Website != "" {
		strengths = append(strengths, "un sito web attivo")
	} else {
		gaps = append(gaps, "la creazione di un sito web professionale")
	}
	if len(req.SocialPlatforms) >= 2 {
		strengths = append(strengths, fmt.Sprintf("presenza su %d canali social", len(req.SocialPlatforms)))
	} else {
		gaps = append(gaps, "l'ampliamento della presenza social")
	}
	if req.HasGMB {
		strengths = append(strengths, "un profilo Google My Business")
	} else {
		gaps = append(gaps, "l'attivazione di Google My Business")
	}
	if len(req.AdsPlatforms) > 0 {
		strengths = append(strengths, "campagne pubblicitarie già avviate")
	} else {
		gaps = append(gaps, "l'avvio di campagne pubblicitarie mirate")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Valutazione della maturità digitale di %s\n\n", req.Company)
	if len(strengths) > 0 {
		fmt.Fprintf(&b, "Punti di forza: l'azienda dispone di %s.\n\n", strings.Join(strengths, ", "))
	}
	if len(gaps) > 0 {
		fmt.Fprintf(&b, "Aree di miglioramento: consigliamo %s.\n\n", strings.Join(gaps, ", "))
	}
	fmt.Fprintf(&b, "In relazione all'obiettivo dichiarato (%s), Arxéon può definire un piano operativo su misura.\n\n", req.MainObjective)
	fmt.Fprintf(&b, "Punteggio: %d/10\n", score)
	fmt.Fprintf(&b, "Livello: %s\n", level)
	return b.String()
}

func fallbackScore(req *models.AuditRequest) int {
	score := 1
	if req.Website != "" {
		score += 2
	}
	if len(req.SocialPlatforms) > 0 {
		score++
	}
	if len(req.SocialPlatforms) >= 3 {
		score++
	}
	if req.HasGMB {
		score++
	}
	if len(req.AdsPlatforms) > 0 {
		score += 2
	}
	if len(req.AdsPlatforms) >= 2 {
		score++
	}
	if score > 9 {
		score = 9
	}
	return score
}

// LevelForScore maps a 0-10 score to a maturity level label.
func LevelForScore(score int) string {
	switch {
	case score < 4:
		return models.MaturityLevelBasic
	case score < 7:
		return models.MaturityLevelMedium
	default:
		return models.MaturityLevelAdvanced
	}
}

var (
	scorePattern         = regexp.MustCompile(`(?i)punteggio[^0-9]{0,10}([0-9]{1,2})(?:[.,][0-9]+)?\s*/\s*10`)
	scoreFallbackPattern = regexp.MustCompile(`([0-9]{1,2})(?:[.,][0-9]+)?\s*/\s*10`)
	levelPattern         = regexp.MustCompile(`(?i)livello[^a-z]{0,5}(basso|medio|avanzato)`)
	levelAnywherePattern = regexp.MustCompile(`(?i)\b(basso|medio|avanzato)\b`)
)

// ExtractScore parses the numeric score from free-form evaluation text.
// The generation output format is best-effort; a miss returns the mid-range
// default.
func ExtractScore(text string) int {
	m := scorePattern.FindStringSubmatch(text)
	if m == nil {
		m = scoreFallbackPattern.FindStringSubmatch(text)
	}
	if m == nil {
		return defaultScore
	}
	score, err := strconv.Atoi(m[1])
	if err != nil || score < 0 || score > 10 {
		return defaultScore
	}
	return score
}

// ExtractLevel parses the maturity level label from free-form evaluation
// text, defaulting to the mid level on a miss.
func ExtractLevel(text string) string {
	m := levelPattern.FindStringSubmatch(text)
	if m == nil {
		m = levelAnywherePattern.FindStringSubmatch(text)
	}
	if m == nil {
		return defaultLevel
	}
	switch strings.ToLower(m[1]) {
	case "basso":
		return models.MaturityLevelBasic
	case "avanzato":
		return models.MaturityLevelAdvanced
	default:
		return models.MaturityLevelMedium
	}
}
