package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	ErrTxReverted = errors.New("transaction reverted")

	dialClient = ethclient.Dial
)

// transferFromSelector is the 4-byte selector of ERC20 transferFrom(address,address,uint256)
var transferFromSelector = common.Hex2Bytes("23b872dd")

// TokenClient executes ERC20 transfers on behalf of the keeper account.
// Subscribers grant the keeper an allowance; each charge is a transferFrom
// moving funds straight from subscriber to creator.
type TokenClient struct {
	client     *ethclient.Client
	chainID    *big.Int
	privateKey *ecdsa.PrivateKey
	fromAddr   common.Address

	// testTransfer allows deterministic unit tests without network sockets.
	testTransfer func(ctx context.Context, from, to, token string, amount *big.Int) (string, error)
}

// NewTokenClient creates a token client signing with the keeper key
func NewTokenClient(rpcURL, privateKeyHex string) (*TokenClient, error) {
	client, err := dialClient(rpcURL)
	if err != nil {
		return nil, err
	}

	chainID, err := client.ChainID(context.Background())
	if err != nil {
		return nil, err
	}

	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, err
	}

	return &TokenClient{
		client:     client,
		chainID:    chainID,
		privateKey: key,
		fromAddr:   crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// NewTokenClientWithTransfer creates a token client that uses an injected
// transfer implementation. Intended for unit tests.
func NewTokenClientWithTransfer(fn func(ctx context.Context, from, to, token string, amount *big.Int) (string, error)) *TokenClient {
	return &TokenClient{testTransfer: fn}
}

// Transfer moves amount of token from subscriber to creator and waits for the
// receipt. The context deadline bounds the whole call; an expired deadline is
// reported as context.DeadlineExceeded, never a pending transfer.
func (c *TokenClient) Transfer(ctx context.Context, from, to, token string, amount *big.Int) (string, error) {
	if c.testTransfer != nil {
		return c.testTransfer(ctx, from, to, token, amount)
	}

	tokenAddr := common.HexToAddress(token)
	data := make([]byte, 0, 4+3*32)
	data = append(data, transferFromSelector...)
	data = append(data, common.LeftPadBytes(common.HexToAddress(from).Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(common.HexToAddress(to).Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(amount.Bytes(), 32)...)

	nonce, err := c.client.PendingNonceAt(ctx, c.fromAddr)
	if err != nil {
		return "", err
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", err
	}

	tx := types.NewTransaction(nonce, tokenAddr, big.NewInt(0), 120000, gasPrice, data)
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.privateKey)
	if err != nil {
		return "", err
	}

	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		return "", err
	}

	txHash := signedTx.Hash()
	receipt, err := c.waitReceipt(ctx, txHash)
	if err != nil {
		return txHash.Hex(), err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return txHash.Hex(), ErrTxReverted
	}
	return txHash.Hex(), nil
}

func (c *TokenClient) waitReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		receipt, err := c.client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close closes the client connection
func (c *TokenClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// AttemptHash derives a unique pseudo transaction hash for a charge attempt
// that never reached the chain (transport failure or timeout), so the failed
// outcome can still be recorded under the ledger's unique tx hash constraint.
func AttemptHash(subscriptionID string, cycle time.Time, executor string, at time.Time) string {
	payload := []byte(subscriptionID + "|" + cycle.UTC().Format(time.RFC3339Nano) + "|" + executor + "|" + at.UTC().Format(time.RFC3339Nano))
	return "0x" + common.Bytes2Hex(crypto.Keccak256(payload))
}
