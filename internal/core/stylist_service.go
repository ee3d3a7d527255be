package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/jinxiu-shop/storefront/internal/config"
	"google.golang.org/api/option"
)

const (
	stylistModelName = "gemini-1.5-flash-latest"

	stylistSystemInstruction = "你是一位精通传统汉服与现代时尚混搭的资深造型师。" +
		"请针对顾客选购的马面裙给出简短、专业的穿搭建议（100字以内），包括：" +
		"1. 适合搭配的上衣（如：立领对襟衫、现代衬衫、T恤等）。" +
		"2. 适合的鞋履或配饰。" +
		"3. 整体风格定位（如：端庄大气、日常通勤、国潮街头）。"

	// Shown when the model returns nothing usable / when the call fails.
	// Errors never propagate past this service.
	adviceEmptyFallback = "暂时无法生成穿搭建议。"
	adviceErrorFallback = "AI 造型师正在忙碌中，请稍后再试。"
)

// StylingAdvisor is the one external AI contract in the system:
// (product name, description) in, free-form advice text out. Implementations
// must degrade to a fallback string instead of failing.
type StylingAdvisor interface {
	GetStylingAdvice(ctx context.Context, productName, productDesc string) string
}

// StylistService asks Gemini for outfit advice. No retries, no timeout
// beyond the request context, failures are logged and swallowed.
type StylistService struct {
	client *genai.Client
}

// NewStylistService builds the Gemini-backed advisor. Without an API key it
// still constructs; every call then yields the error fallback.
func NewStylistService() *StylistService {
	if config.AppConfig.GeminiAPIKey == "" {
		return &StylistService{}
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Printf("Failed to create GenAI client, styling advice disabled: %v", err)
		return &StylistService{}
	}
	return &StylistService{client: client}
}

func (s *StylistService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

func (s *StylistService) GetStylingAdvice(ctx context.Context, productName, productDesc string) string {
	if s.client == nil {
		return adviceErrorFallback
	}

	model := s.client.GenerativeModel(stylistModelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(stylistSystemInstruction)},
	}

	prompt := fmt.Sprintf("商品名称: %s\n商品描述: %s", productName, productDesc)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("Gemini styling advice request failed: %v", err)
		return adviceErrorFallback
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Println("Gemini styling advice response was empty")
		return adviceEmptyFallback
	}

	var advice strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			advice.WriteString(string(txt))
		}
	}

	if advice.Len() == 0 {
		return adviceEmptyFallback
	}
	return strings.TrimSpace(advice.String())
}
