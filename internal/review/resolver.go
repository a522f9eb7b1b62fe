package review

import (
	"context"
	"encoding/base64"

	"go.uber.org/zap"

	"reviewlens-gateway/internal/llm"
	"reviewlens-gateway/internal/metrics"
	"reviewlens-gateway/pkg/logging/logging"
)

// IdentifyMaxTokens is the generation budget for naming a pictured product.
const IdentifyMaxTokens = 50

// Resolver names the product shown in an image.
type Resolver struct {
	llm   llm.Client
	model string
}

func NewResolver(client llm.Client, model string) *Resolver {
	if model == "" {
		model = DefaultModel
	}
	return &Resolver{llm: client, model: model}
}

// Identify asks the vision model which product image shows. The model's
// text is returned verbatim, even when it does not look like a product
// name; callers use it directly as the product identifier.
func (r *Resolver) Identify(ctx context.Context, image []byte) (string, error) {
	resp, err := r.llm.ChatCompletion(ctx, r.identifyRequest(image))
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("identify", "error").Inc()
		return "", err
	}
	product, err := resp.Text()
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("identify", "error").Inc()
		return "", err
	}
	metrics.GenerationsTotal.WithLabelValues("identify", "ok").Inc()

	logging.L(ctx).Info("product_identified",
		zap.String("product", product),
		zap.Int("image_bytes", len(image)),
	)

	return product, nil
}

func (r *Resolver) identifyRequest(image []byte) *llm.ChatRequest {
	return &llm.ChatRequest{
		Model: r.model,
		Messages: []llm.ChatMessage{
			{
				Role: llm.RoleUser,
				Parts: []llm.ContentPart{
					llm.TextPart(identifyInstruction),
					llm.ImagePart(ImageDataURI(image)),
				},
			},
		},
		MaxTokens: IdentifyMaxTokens,
	}
}

// ImageDataURI encodes image as a JPEG data URI. The media type is fixed;
// the vision endpoint sniffs the actual format.
func ImageDataURI(image []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
}
