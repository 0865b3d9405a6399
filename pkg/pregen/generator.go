// Package pregen signs a transaction ahead of time for every gas price on a
// grid, so that reacting to a pending transaction is a store lookup instead
// of a signature.
package pregen

import (
	"context"
	"fmt"
	"time"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/persistence"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/relay"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/transaction"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/transactionSigner"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/types"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/util"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

const progressInterval = 1000

type Generator struct {
	signer transactionSigner.ITransactionSigner
	store  persistence.IPregenPersistence
	logger *zap.Logger
	now    func() time.Time
}

func NewGenerator(
	signer transactionSigner.ITransactionSigner,
	store persistence.IPregenPersistence,
	logger *zap.Logger,
) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		signer: signer,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Generate re-signs tx for every gas price of rng and stores each signed
// transaction wrapped in a relay message. The stored run state is removed
// before the first write and saved again only once every entry is written,
// so an interrupted run leaves no state for Lookup to trust. Entries left by
// a run with different parameters are removed. The gas price field of tx is
// overwritten.
func (g *Generator) Generate(ctx context.Context, tx *transaction.Transaction, rng Range) (*persistence.RunState, error) {
	if err := rng.Validate(); err != nil {
		return nil, fmt.Errorf("invalid range: %w", err)
	}

	state, err := g.runStateFor(tx, rng)
	if err != nil {
		return nil, err
	}

	prev, err := g.store.LoadRunState()
	if err != nil {
		return nil, fmt.Errorf("failed to load run state: %w", err)
	}
	if err := g.store.DeleteRunState(); err != nil {
		return nil, fmt.Errorf("failed to invalidate run state: %w", err)
	}
	if !prev.Matches(state) {
		if err := g.dropEntries(); err != nil {
			return nil, err
		}
	}

	count := rng.Count()
	g.logger.Sugar().Infow("Pregenerating transactions",
		zap.Uint64("fromGwei", rng.FromGwei),
		zap.Uint64("toGwei", rng.ToGwei),
		zap.Uint64("decimals", rng.Decimals),
		zap.Uint64("count", count),
	)

	for i := uint64(0); i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		gasPrice := rng.GasPriceAt(i)
		entry, err := g.sign(tx, gasPrice)
		if err != nil {
			return nil, fmt.Errorf("gas price %s: %w", gasPrice.Dec(), err)
		}
		if err := g.store.SaveEntry(entry); err != nil {
			return nil, fmt.Errorf("failed to save entry for gas price %s: %w", gasPrice.Dec(), err)
		}

		if (i+1)%progressInterval == 0 {
			g.logger.Sugar().Debugw("Pregeneration progress", "done", i+1, "total", count)
		}
	}

	state.EntryCount = int(count)
	state.CompletedAt = g.now().Unix()
	if err := g.store.SaveRunState(state); err != nil {
		return nil, fmt.Errorf("failed to save run state: %w", err)
	}

	g.logger.Sugar().Infow("Pregenerated transactions", "count", count)
	return state, nil
}

// runStateFor describes a run of rng for tx signed by the current key.
func (g *Generator) runStateFor(tx *transaction.Transaction, rng Range) (*persistence.RunState, error) {
	templateHash, err := tx.TemplateHash()
	if err != nil {
		return nil, fmt.Errorf("invalid transaction template: %w", err)
	}
	return &persistence.RunState{
		FromGwei:      rng.FromGwei,
		ToGwei:        rng.ToGwei,
		Decimals:      rng.Decimals,
		ChainID:       tx.ChainID(),
		SignerAddress: g.signer.GetFromAddress().Hex(),
		TemplateHash:  util.BufferToHexString(templateHash[:], false),
	}, nil
}

func (g *Generator) dropEntries() error {
	entries, err := g.store.ListEntries()
	if err != nil {
		return fmt.Errorf("failed to list stale entries: %w", err)
	}
	for _, e := range entries {
		if err := g.store.DeleteEntry(e.GasPriceWei); err != nil {
			return fmt.Errorf("failed to delete stale entry %s: %w", e.GasPriceWei, err)
		}
	}
	if len(entries) > 0 {
		g.logger.Sugar().Infow("Removed entries from a previous run", "count", len(entries))
	}
	return nil
}

// sign produces the relay message for tx at one gas price.
func (g *Generator) sign(tx *transaction.Transaction, gasPriceWei *uint256.Int) (*types.PregenEntry, error) {
	if err := tx.SetFieldUint256(transaction.GasPrice, gasPriceWei); err != nil {
		return nil, err
	}
	signed, err := g.signer.SignTransaction(tx)
	if err != nil {
		return nil, err
	}

	raw := util.BufferToHexString(signed, false)
	msg, err := relay.BuildTransaction(raw)
	if err != nil {
		return nil, err
	}

	return &types.PregenEntry{
		GasPriceWei:    gasPriceWei.Dec(),
		RawTransaction: raw,
		Message:        string(msg),
		CreatedAt:      g.now().Unix(),
	}, nil
}

// Lookup returns the pregenerated entry for tx at a gas price. It returns nil
// unless the last completed run was signed by the current key for the same
// chain and template, and the gas price is on its grid.
func (g *Generator) Lookup(ctx context.Context, tx *transaction.Transaction, gasPriceWei *uint256.Int) (*types.PregenEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state, err := g.store.LoadRunState()
	if err != nil {
		return nil, fmt.Errorf("failed to load run state: %w", err)
	}
	if state == nil || state.CompletedAt == 0 {
		return nil, nil
	}

	rng := Range{FromGwei: state.FromGwei, ToGwei: state.ToGwei, Decimals: state.Decimals}
	if rng.Validate() != nil || !rng.Contains(gasPriceWei) {
		return nil, nil
	}

	current, err := g.runStateFor(tx, rng)
	if err != nil {
		return nil, err
	}
	if !state.Matches(current) {
		g.logger.Sugar().Debugw("Stored run does not match transaction",
			"storedSigner", state.SignerAddress,
			"signer", current.SignerAddress,
			"storedChainId", state.ChainID,
			"chainId", current.ChainID,
		)
		return nil, nil
	}

	return g.store.LoadEntry(gasPriceWei.Dec())
}

// Respond returns the relay message to send for a pending transaction priced
// at gasPriceWei: the pregenerated one when Lookup finds it, otherwise tx
// signed on the spot.
func (g *Generator) Respond(ctx context.Context, tx *transaction.Transaction, gasPriceWei *uint256.Int) (*types.PregenEntry, bool, error) {
	entry, err := g.Lookup(ctx, tx, gasPriceWei)
	if err != nil {
		return nil, false, err
	}
	if entry != nil {
		return entry, true, nil
	}

	g.logger.Sugar().Debugw("No pregenerated transaction, signing", "gasPriceWei", gasPriceWei.Dec())
	entry, err = g.sign(tx, gasPriceWei)
	if err != nil {
		return nil, false, err
	}
	return entry, false, nil
}
