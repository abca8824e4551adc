package helius_test

import (
	"context"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/tickettoken/gatekeeper/internal/domain"
	"github.com/tickettoken/gatekeeper/internal/logger"
	"github.com/tickettoken/gatekeeper/internal/mocks"
	"github.com/tickettoken/gatekeeper/internal/providers/helius"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

const (
	testAPIURL = "https://mainnet.helius-rpc.com"
	testAPIKey = "test-key"
	testMint   = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	testWallet = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
)

func TestGetTokenAccounts_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := helius.NewClient(httpClient, nil, testAPIURL, testAPIKey)

	response := `{
		"jsonrpc": "2.0",
		"id": "gatekeeper",
		"result": {
			"total": 1,
			"token_accounts": [
				{"address": "acct-1", "mint": "` + testMint + `", "owner": "` + testWallet + `", "amount": 1}
			]
		}
	}`

	httpClient.EXPECT().
		PostJSON(gomock.Any(), testAPIURL+"/?api-key="+testAPIKey, gomock.Any(), nil).
		Return([]byte(response), nil)

	accounts, err := client.GetTokenAccounts(context.Background(), testWallet, testMint)
	assert.NoError(t, err)
	assert.Len(t, accounts, 1)
	assert.Equal(t, uint64(1), accounts[0].Amount)
	assert.Equal(t, testWallet, accounts[0].Owner)
}

func TestGetTokenAccounts_APIError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := helius.NewClient(httpClient, nil, testAPIURL, testAPIKey)

	httpClient.EXPECT().
		PostJSON(gomock.Any(), gomock.Any(), gomock.Any(), nil).
		Return([]byte(`{"jsonrpc": "2.0", "id": "gatekeeper", "error": {"code": -32600, "message": "invalid request"}}`), nil)

	_, err := client.GetTokenAccounts(context.Background(), testWallet, testMint)
	assert.ErrorContains(t, err, "invalid request")
}

func TestGetTokenAccounts_NoAPIKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := helius.NewClient(httpClient, nil, testAPIURL, "")

	_, err := client.GetTokenAccounts(context.Background(), testWallet, testMint)
	assert.ErrorIs(t, err, helius.ErrNoAPIKey)
}

func TestGetAsset_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := helius.NewClient(httpClient, nil, testAPIURL, testAPIKey)

	response := `{
		"jsonrpc": "2.0",
		"id": "gatekeeper",
		"result": {
			"id": "` + testMint + `",
			"content": {
				"metadata": {"name": "Backstage Pass #42", "symbol": "PASS", "description": "All-access pass"},
				"links": {"image": "https://example.com/pass.png"}
			},
			"grouping": [
				{"group_key": "collection", "group_value": "BackstagePasses"}
			]
		}
	}`

	httpClient.EXPECT().
		PostJSON(gomock.Any(), gomock.Any(), gomock.Any(), nil).
		Return([]byte(response), nil)

	metadata, err := client.GetAsset(context.Background(), testMint)
	assert.NoError(t, err)
	assert.Equal(t, &domain.TokenMetadata{
		Name:        "Backstage Pass #42",
		Symbol:      "PASS",
		Description: "All-access pass",
		ImageURL:    "https://example.com/pass.png",
		Collection:  "BackstagePasses",
	}, metadata)
}

func TestGetAsset_UnknownAsset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := helius.NewClient(httpClient, nil, testAPIURL, testAPIKey)

	httpClient.EXPECT().
		PostJSON(gomock.Any(), gomock.Any(), gomock.Any(), nil).
		Return([]byte(`{"jsonrpc": "2.0", "id": "gatekeeper", "result": null}`), nil)

	metadata, err := client.GetAsset(context.Background(), testMint)
	assert.NoError(t, err)
	assert.Nil(t, metadata)
}
