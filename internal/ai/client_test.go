package ai

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type fakeChat struct {
	request  openai.ChatCompletionRequest
	response openai.ChatCompletionResponse
	err      error
}

func (f *fakeChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.request = req
	return f.response, f.err
}

func TestGeneratePromptAssembly(t *testing.T) {
	fake := &fakeChat{
		response: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "olá, como posso ajudar?"}},
			},
			Usage: openai.Usage{TotalTokens: 42},
		},
	}
	client := &Client{chat: fake, model: "deepseek-chat", log: zap.NewNop()}

	history := []Turn{
		{Role: "user", Content: "oi"},
		{Role: "assistant", Content: "olá!"},
	}
	reply, err := client.Generate(context.Background(), "", history, "preciso de ajuda")
	if err != nil {
		t.Fatal(err)
	}

	if reply.Content != "olá, como posso ajudar?" {
		t.Errorf("content = %q", reply.Content)
	}
	if reply.TokensUsed != 42 {
		t.Errorf("tokens = %d, want 42", reply.TokensUsed)
	}

	msgs := fake.request.Messages
	if len(msgs) != 4 {
		t.Fatalf("messages = %d, want 4", len(msgs))
	}
	if msgs[0].Role != openai.ChatMessageRoleSystem || msgs[0].Content != DefaultSystemPrompt {
		t.Errorf("system message = %+v", msgs[0])
	}
	if msgs[3].Role != openai.ChatMessageRoleUser || msgs[3].Content != "preciso de ajuda" {
		t.Errorf("last message = %+v", msgs[3])
	}
	if fake.request.Model != "deepseek-chat" {
		t.Errorf("model = %q", fake.request.Model)
	}
	if fake.request.MaxTokens != 1024 {
		t.Errorf("max_tokens = %d", fake.request.MaxTokens)
	}
}

func TestGenerateCustomSystemPrompt(t *testing.T) {
	fake := &fakeChat{}
	client := &Client{chat: fake, model: "deepseek-chat", log: zap.NewNop()}

	if _, err := client.Generate(context.Background(), "Você é o suporte da loja.", nil, "oi"); err != nil {
		t.Fatal(err)
	}
	if fake.request.Messages[0].Content != "Você é o suporte da loja." {
		t.Errorf("system prompt = %q", fake.request.Messages[0].Content)
	}
}

func TestGeneratePropagatesError(t *testing.T) {
	fake := &fakeChat{err: errors.New("boom")}
	client := &Client{chat: fake, model: "deepseek-chat", log: zap.NewNop()}

	if _, err := client.Generate(context.Background(), "", nil, "oi"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNilClientUnavailable(t *testing.T) {
	var client *Client
	_, err := client.Generate(context.Background(), "", nil, "oi")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
