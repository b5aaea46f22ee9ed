package rpc

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"nftswap/crypto"
	nativecommon "nftswap/native/common"
	"nftswap/native/nftswap"
)

const (
	codeSwapInvalidParams = -32031
	codeSwapNotFound      = -32032
	codeSwapForbidden     = -32033
	codeSwapConflict      = -32034
	codeSwapInternal      = -32035
)

// SwapSigningPayload builds the canonical byte payload a caller signs for a
// mutating swap method. Fields are pipe-joined after the method name, with
// the caller metadata (nonce, expiresAt, ttl) appended last; the recovered
// signer is the operation's caller, so the identity can never be spoofed by
// a request field.
func SwapSigningPayload(method string, fields ...string) []byte {
	parts := append([]string{method}, fields...)
	return []byte(strings.Join(parts, "|"))
}

func recoverCaller(signature string, method string, fields ...string) ([20]byte, *RPCError) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(signature), "0x"))
	if err != nil {
		return [20]byte{}, &RPCError{Code: codeSwapInvalidParams, Message: "invalid signature encoding", Data: err.Error()}
	}
	if len(raw) != 65 {
		return [20]byte{}, &RPCError{Code: codeSwapInvalidParams, Message: "signature must be 65 bytes"}
	}
	signer, err := crypto.RecoverSigner(SwapSigningPayload(method, fields...), raw)
	if err != nil {
		return [20]byte{}, &RPCError{Code: codeSwapInvalidParams, Message: "signature recovery failed", Data: err.Error()}
	}
	return signer, nil
}

// recoverSignedCaller recovers the caller from the signature over the method
// arguments plus the caller metadata, then enforces the per-caller nonce and
// expiry. A request replayed verbatim fails the nonce check.
func (s *Server) recoverSignedCaller(meta callerMetadataParams, signature, method string, fields ...string) ([20]byte, *RPCError) {
	signed := append(append([]string{}, fields...), meta.signingFields()...)
	caller, rpcErr := recoverCaller(signature, method, signed...)
	if rpcErr != nil {
		return [20]byte{}, rpcErr
	}
	if err := s.validateCallerMetadata(callerKeyFromAddress(caller), meta); err != nil {
		return [20]byte{}, &RPCError{Code: codeSwapInvalidParams, Message: "invalid caller metadata", Data: err.Error()}
	}
	return caller, nil
}

func decodeParams(req *RPCRequest, out interface{}) *RPCError {
	if len(req.Params) != 1 {
		return &RPCError{Code: codeInvalidParams, Message: "expected a single params object"}
	}
	if err := json.Unmarshal(req.Params[0], out); err != nil {
		return &RPCError{Code: codeInvalidParams, Message: "invalid params object", Data: err.Error()}
	}
	return nil
}

func decodeBech32(field, value string) ([20]byte, *RPCError) {
	addr, err := crypto.DecodeAddress(strings.TrimSpace(value))
	if err != nil {
		return [20]byte{}, &RPCError{Code: codeSwapInvalidParams, Message: fmt.Sprintf("invalid %s address", field), Data: err.Error()}
	}
	return addr.Bytes(), nil
}

func decodeAsset(field, value string) ([32]byte, *RPCError) {
	var asset [32]byte
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "0x")
	if trimmed == "" {
		return asset, nil
	}
	raw, err := hex.DecodeString(trimmed)
	if err != nil || len(raw) != 32 {
		return asset, &RPCError{Code: codeSwapInvalidParams, Message: fmt.Sprintf("%s must be 32 hex bytes", field)}
	}
	copy(asset[:], raw)
	return asset, nil
}

func bech32String(addr [20]byte) string {
	encoded, err := crypto.NewAddress(addr[:])
	if err != nil {
		return hex.EncodeToString(addr[:])
	}
	return encoded.String()
}

func swapError(err error) *RPCError {
	switch {
	case errors.Is(err, nftswap.ErrPoolNotFound), errors.Is(err, nftswap.ErrOrderNotFound):
		return &RPCError{Code: codeSwapNotFound, Message: err.Error()}
	case errors.Is(err, nftswap.ErrUnauthorized),
		errors.Is(err, nftswap.ErrInvalidFeeCollector),
		errors.Is(err, nativecommon.ErrModulePaused):
		return &RPCError{Code: codeSwapForbidden, Message: err.Error()}
	case errors.Is(err, nftswap.ErrPoolExists),
		errors.Is(err, nftswap.ErrOrderExists),
		errors.Is(err, nftswap.ErrCustodyOccupied),
		errors.Is(err, nftswap.ErrCustodyEmpty),
		errors.Is(err, nftswap.ErrInvalidOperation),
		errors.Is(err, nftswap.ErrInsufficientFunds),
		errors.Is(err, nftswap.ErrInsufficientReserve):
		return &RPCError{Code: codeSwapConflict, Message: err.Error()}
	case errors.Is(err, nftswap.ErrInvalidCollectionID),
		errors.Is(err, nftswap.ErrTooManyTraits),
		errors.Is(err, nftswap.ErrTraitNameTooLong),
		errors.Is(err, nftswap.ErrInvalidAmount),
		errors.Is(err, nftswap.ErrAmountTooLarge),
		errors.Is(err, nftswap.ErrInvalidFeeAmount),
		errors.Is(err, nftswap.ErrCollectionMismatch),
		errors.Is(err, nftswap.ErrAssetNotHeld),
		errors.Is(err, nftswap.ErrAddressMismatch),
		errors.Is(err, nftswap.ErrArithmeticOverflow):
		return &RPCError{Code: codeSwapInvalidParams, Message: err.Error()}
	default:
		return &RPCError{Code: codeSwapInternal, Message: err.Error()}
	}
}

type poolJSON struct {
	Address      string `json:"address"`
	Authority    string `json:"authority"`
	CollectionID string `json:"collectionId"`
	SwapFee      uint64 `json:"swapFee"`
	NFTCount     uint32 `json:"nftCount"`
	TotalVolume  uint64 `json:"totalVolume"`
	HeldAsset    string `json:"heldAsset,omitempty"`
	Bump         uint8  `json:"bump"`
}

func poolToJSON(pool *nftswap.Pool) (*poolJSON, error) {
	addr, err := pool.Address()
	if err != nil {
		return nil, err
	}
	out := &poolJSON{
		Address:      bech32String(addr),
		Authority:    bech32String(pool.Authority),
		CollectionID: pool.CollectionID,
		SwapFee:      pool.SwapFee,
		NFTCount:     pool.NFTCount,
		TotalVolume:  pool.TotalVolume,
		Bump:         pool.Bump,
	}
	if pool.HoldsAsset() {
		out.HeldAsset = hex.EncodeToString(pool.HeldAsset[:])
	}
	return out, nil
}

type orderJSON struct {
	User          string   `json:"user"`
	TargetAsset   string   `json:"targetAsset,omitempty"`
	DesiredTraits []string `json:"desiredTraits,omitempty"`
	Active        bool     `json:"active"`
	Bump          uint8    `json:"bump"`
}

func orderToJSON(order *nftswap.SwapOrder) *orderJSON {
	out := &orderJSON{
		User:          bech32String(order.User),
		DesiredTraits: order.DesiredTraits,
		Active:        order.Active,
		Bump:          order.Bump,
	}
	if order.TargetAsset != ([32]byte{}) {
		out.TargetAsset = hex.EncodeToString(order.TargetAsset[:])
	}
	return out
}

type initializePoolParams struct {
	CollectionID string `json:"collectionId"`
	SwapFee      uint64 `json:"swapFee"`
	Signature    string `json:"signature"`
	callerMetadataParams
}

func (s *Server) handleInitializePool(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params initializePoolParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	authority, rpcErr := s.recoverSignedCaller(params.callerMetadataParams, params.Signature, "nftswap_initializePool",
		params.CollectionID, strconv.FormatUint(params.SwapFee, 10))
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	pool, err := s.node.SwapInitializePool(authority, params.CollectionID, params.SwapFee)
	if err != nil {
		rpcErr := swapError(err)
		writeError(w, http.StatusOK, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	result, err := poolToJSON(pool)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeSwapInternal, err.Error(), nil)
		return
	}
	writeResult(w, req.ID, result)
}

type updatePoolStatsParams struct {
	CollectionID string `json:"collectionId"`
	NFTCount     uint32 `json:"nftCount"`
	VolumeDelta  uint64 `json:"volumeDelta"`
	Signature    string `json:"signature"`
	callerMetadataParams
}

func (s *Server) handleUpdatePoolStats(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params updatePoolStatsParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := s.recoverSignedCaller(params.callerMetadataParams, params.Signature, "nftswap_updatePoolStats",
		params.CollectionID,
		strconv.FormatUint(uint64(params.NFTCount), 10),
		strconv.FormatUint(params.VolumeDelta, 10))
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	if err := s.node.SwapUpdatePoolStats(caller, params.CollectionID, params.NFTCount, params.VolumeDelta); err != nil {
		rpcErr := swapError(err)
		writeError(w, http.StatusOK, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	writeResult(w, req.ID, map[string]bool{"updated": true})
}

type solTransferParams struct {
	CollectionID string `json:"collectionId"`
	Amount       uint64 `json:"amount"`
	Signature    string `json:"signature"`
	callerMetadataParams
}

func (s *Server) handleDepositSOL(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params solTransferParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := s.recoverSignedCaller(params.callerMetadataParams, params.Signature, "nftswap_depositSOL",
		params.CollectionID, strconv.FormatUint(params.Amount, 10))
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	if err := s.node.SwapDepositSOL(caller, params.CollectionID, params.Amount); err != nil {
		rpcErr := swapError(err)
		writeError(w, http.StatusOK, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	writeResult(w, req.ID, map[string]bool{"deposited": true})
}

func (s *Server) handleWithdrawSOL(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params solTransferParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := s.recoverSignedCaller(params.callerMetadataParams, params.Signature, "nftswap_withdrawSOL",
		params.CollectionID, strconv.FormatUint(params.Amount, 10))
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	if err := s.node.SwapWithdrawSOL(caller, params.CollectionID, params.Amount); err != nil {
		rpcErr := swapError(err)
		writeError(w, http.StatusOK, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	writeResult(w, req.ID, map[string]bool{"withdrawn": true})
}

type createOrderParams struct {
	TargetAsset   string   `json:"targetAsset,omitempty"`
	DesiredTraits []string `json:"desiredTraits,omitempty"`
	Signature     string   `json:"signature"`
	callerMetadataParams
}

func (s *Server) handleCreateSwapOrder(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params createOrderParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	target, rpcErr := decodeAsset("targetAsset", params.TargetAsset)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	user, rpcErr := s.recoverSignedCaller(params.callerMetadataParams, params.Signature, "nftswap_createSwapOrder",
		hex.EncodeToString(target[:]), strings.Join(params.DesiredTraits, ","))
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	order, err := s.node.SwapCreateOrder(user, target, params.DesiredTraits)
	if err != nil {
		rpcErr := swapError(err)
		writeError(w, http.StatusOK, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	writeResult(w, req.ID, orderToJSON(order))
}

type depositAssetParams struct {
	CollectionID string `json:"collectionId"`
	Asset        string `json:"asset"`
	Signature    string `json:"signature"`
	callerMetadataParams
}

func (s *Server) handleDepositAsset(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params depositAssetParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	asset, rpcErr := decodeAsset("asset", params.Asset)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := s.recoverSignedCaller(params.callerMetadataParams, params.Signature, "nftswap_depositAsset",
		params.CollectionID, hex.EncodeToString(asset[:]))
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	if err := s.node.SwapDepositAsset(caller, params.CollectionID, asset); err != nil {
		rpcErr := swapError(err)
		writeError(w, http.StatusOK, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	writeResult(w, req.ID, map[string]bool{"deposited": true})
}

type executeSwapParams struct {
	CollectionID string `json:"collectionId"`
	User         string `json:"user"`
	Fee          uint64 `json:"fee"`
	FeeCollector string `json:"feeCollector"`
	UserAsset    string `json:"userAsset"`
	Signature    string `json:"signature"`
	callerMetadataParams
}

func (s *Server) handleExecuteSwap(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params executeSwapParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	user, rpcErr := decodeBech32("user", params.User)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	feeCollector, rpcErr := decodeBech32("feeCollector", params.FeeCollector)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	userAsset, rpcErr := decodeAsset("userAsset", params.UserAsset)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := s.recoverSignedCaller(params.callerMetadataParams, params.Signature, "nftswap_executeSwap",
		params.CollectionID,
		params.User,
		strconv.FormatUint(params.Fee, 10),
		params.FeeCollector,
		hex.EncodeToString(userAsset[:]))
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	if err := s.node.SwapExecute(caller, user, params.CollectionID, params.Fee, feeCollector, userAsset); err != nil {
		rpcErr := swapError(err)
		writeError(w, http.StatusOK, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	writeResult(w, req.ID, map[string]bool{"executed": true})
}

type swapAssetParams struct {
	CollectionID string `json:"collectionId"`
	Fee          uint64 `json:"fee"`
	FeeCollector string `json:"feeCollector"`
	UserAsset    string `json:"userAsset"`
	Signature    string `json:"signature"`
	callerMetadataParams
}

func (s *Server) handleSwapAsset(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params swapAssetParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	feeCollector, rpcErr := decodeBech32("feeCollector", params.FeeCollector)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	userAsset, rpcErr := decodeAsset("userAsset", params.UserAsset)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	user, rpcErr := s.recoverSignedCaller(params.callerMetadataParams, params.Signature, "nftswap_swapAsset",
		params.CollectionID,
		strconv.FormatUint(params.Fee, 10),
		params.FeeCollector,
		hex.EncodeToString(userAsset[:]))
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	if err := s.node.SwapDirect(user, params.CollectionID, params.Fee, feeCollector, userAsset); err != nil {
		rpcErr := swapError(err)
		writeError(w, http.StatusOK, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	writeResult(w, req.ID, map[string]bool{"executed": true})
}

type collectionParams struct {
	CollectionID string `json:"collectionId"`
}

func (s *Server) handleGetPool(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params collectionParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	pool, err := s.node.SwapGetPool(params.CollectionID)
	if err != nil {
		rpcErr := swapError(err)
		writeError(w, http.StatusOK, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	result, err := poolToJSON(pool)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeSwapInternal, err.Error(), nil)
		return
	}
	writeResult(w, req.ID, result)
}

type userParams struct {
	User string `json:"user"`
}

func (s *Server) handleGetOrder(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params userParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	user, rpcErr := decodeBech32("user", params.User)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	order, err := s.node.SwapGetOrder(user)
	if err != nil {
		rpcErr := swapError(err)
		writeError(w, http.StatusOK, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	writeResult(w, req.ID, orderToJSON(order))
}

func (s *Server) handleListCollections(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	collections, err := s.node.SwapListCollections()
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeSwapInternal, err.Error(), nil)
		return
	}
	writeResult(w, req.ID, collections)
}

type addressParams struct {
	Address string `json:"address"`
}

type balanceResult struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

func (s *Server) handleGetBalance(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params addressParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	addr, rpcErr := decodeBech32("address", params.Address)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	account, err := s.node.GetAccount(addr[:])
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeSwapInternal, err.Error(), nil)
		return
	}
	writeResult(w, req.ID, balanceResult{
		Address: params.Address,
		Balance: account.Balance.String(),
		Nonce:   account.Nonce,
	})
}

type registerAssetParams struct {
	Asset        string `json:"asset"`
	CollectionID string `json:"collectionId"`
	Owner        string `json:"owner"`
}

func (s *Server) handleRegisterAsset(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params registerAssetParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	asset, rpcErr := decodeAsset("asset", params.Asset)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	owner, rpcErr := decodeBech32("owner", params.Owner)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	if err := s.node.SwapRegisterAsset(asset, params.CollectionID, owner); err != nil {
		rpcErr := swapError(err)
		writeError(w, http.StatusOK, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	writeResult(w, req.ID, map[string]bool{"registered": true})
}

type creditParams struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

func (s *Server) handleCredit(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params creditParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	addr, rpcErr := decodeBech32("address", params.Address)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	if err := s.node.Credit(addr, params.Amount); err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeSwapInternal, err.Error(), nil)
		return
	}
	writeResult(w, req.ID, map[string]bool{"credited": true})
}

type setPausedParams struct {
	Module string `json:"module"`
	Paused bool   `json:"paused"`
}

func (s *Server) handleSetPaused(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params setPausedParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	if strings.TrimSpace(params.Module) == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeSwapInvalidParams, "module required", nil)
		return
	}
	s.node.SetPaused(params.Module, params.Paused)
	writeResult(w, req.ID, map[string]bool{"paused": params.Paused})
}
