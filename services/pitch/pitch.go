package pitch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"luxo-leads/errs"
	"luxo-leads/models"
	"luxo-leads/utils"
)

// Completer generates text from a prompt. Implementations wrap whatever
// completion API is in use; the template path needs none.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var maintenanceSegments = map[string]string{
	"Mármore/Vidro":   "Notei que seu imóvel possui superfícies nobres como mármore e vidros amplos, que exigem um cuidado especializado para manter o brilho e a sofisticação que seus hóspedes esperam.",
	"Piscina/Jacuzzi": "Como sua propriedade oferece o diferencial de piscina/jacuzzi, sabemos que a manutenção impecável desses itens é o que separa um comentário 5 estrelas de uma reclamação sobre higiene.",
	"Automação":       "Vi que você investiu em automação e tecnologia. Esse tipo de setup exige uma equipe que entenda de cuidados técnicos para não comprometer os sistemas durante a operação.",
	"Café Premium":    "O capricho com mimos como café premium mostra que você preza pela experiência. Nossa gestão foca em elevar esse padrão em todos os pontos de contato.",
}

// Template composes a deterministic outreach message from the lead's
// extracted signals. Always succeeds.
func Template(lead *models.Lead) string {
	host := lead.HostName
	if host == "" {
		host = "Parceiro"
	}
	title := lead.Title
	if title == "" {
		title = "seu imóvel"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s! Tudo bem?\n\n", host)
	fmt.Fprintf(&b, "Estava analisando o perfil do seu imóvel '%s' e fiquei impressionado com o padrão. ", title)

	var segments []string
	for _, item := range lead.MaintenanceItems {
		if seg, ok := maintenanceSegments[item]; ok {
			segments = append(segments, seg)
		}
	}
	if len(segments) > 0 {
		b.WriteString(strings.Join(segments, " "))
		b.WriteString(" ")
	}

	if lead.CleanlinessGap != "" {
		fmt.Fprintf(&b, "\n\nVi alguns comentários sobre a limpeza (mencionaram: %s). Em locações de alto padrão, esses detalhes impactam diretamente seu ranking e preço médio. Podemos resolver isso definitivamente.\n\n", lead.CleanlinessGap)
	} else {
		b.WriteString("\n\nSeu imóvel tem um potencial incrível para o mercado de ultra-luxo, e uma gestão operacional de precisão pode ajudar a maximizar seu retorno.\n\n")
	}

	b.WriteString("Trabalhamos com consultoria e gestão operacional focada exatamente nesse nível de exigência. Gostaria de agendar uma breve conversa ou uma visita técnica sem compromisso?\n\nNo aguardo!")
	return b.String()
}

// Prompt builds the completion prompt for model mode: the template
// draft plus an instruction to personalize it.
func Prompt(lead *models.Lead) string {
	return fmt.Sprintf(
		"Reescreva a mensagem de prospecção abaixo para o anfitrião %s, mantendo o tom consultivo e todos os fatos. Responda apenas com a mensagem.\n\n%s",
		lead.HostName, Template(lead))
}

// Generator produces pitches for ready leads, preferring the model and
// degrading to the template. It never fails a lead outright.
type Generator struct {
	completer Completer
	retry     utils.Retry
	log       zerolog.Logger
}

// NewGenerator wires a generator. A nil completer means template-only.
func NewGenerator(completer Completer, maxAttempts int, baseDelay time.Duration, log zerolog.Logger) *Generator {
	return &Generator{
		completer: completer,
		retry: utils.Retry{
			MaxAttempts: maxAttempts,
			BaseDelay:   baseDelay,
			ShouldRetry: errs.IsRateLimit,
			Logger:      log,
		},
		log: log,
	}
}

// Generate returns the pitch for a lead. Rate-limited completions are
// retried with increasing backoff; any terminal model failure falls back
// to the template. Empty result means no pitch could be produced.
func (g *Generator) Generate(ctx context.Context, lead *models.Lead) string {
	if g.completer == nil {
		return Template(lead)
	}

	var out string
	err := g.retry.Do(ctx, "pitch completion", func() error {
		var cerr error
		out, cerr = g.completer.Complete(ctx, Prompt(lead))
		return cerr
	})
	if err == nil && strings.TrimSpace(out) != "" {
		return strings.TrimSpace(out)
	}
	if err != nil {
		g.log.Warn().Err(err).Str("url", lead.URL).Msg("completion failed, using template")
	}
	return Template(lead)
}
