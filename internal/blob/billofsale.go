package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/lotforge/lotledger/pkg/types"
)

// MaxBillSize caps bill-of-sale uploads at 16 MiB.
const MaxBillSize = 16 << 20

// Upload validation errors.
var (
	ErrFileType     = fmt.Errorf("%w: file type not allowed", types.ErrValidation)
	ErrFileTooLarge = fmt.Errorf("%w: file exceeds maximum size", types.ErrValidation)
	ErrNoBill       = fmt.Errorf("%w: vehicle has no bill of sale", types.ErrValidation)
)

// allowedExtensions maps accepted bill-of-sale extensions to the content
// type recorded with the blob.
var allowedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// sniffPrefixes lists content types http.DetectContentType may report for
// each accepted extension. Detection of text or HTML for an image or PDF
// extension rejects the upload.
var sniffPrefixes = map[string][]string{
	".pdf":  {"application/pdf"},
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
}

// BillOfSale stores and retrieves bill-of-sale documents for vehicles.
// Documents pass through opaque; only the extension, size, and sniffed
// content type are checked on the way in. Each vehicle carries at most
// one document; attaching a new one replaces the old.
type BillOfSale struct {
	blobs  Store
	ledger types.Ledger
	log    *slog.Logger
}

// NewBillOfSale wires a document manager over a blob store and a ledger.
func NewBillOfSale(blobs Store, ledger types.Ledger, log *slog.Logger) *BillOfSale {
	if log == nil {
		log = slog.Default()
	}
	return &BillOfSale{blobs: blobs, ledger: ledger, log: log}
}

// Purge deletes a blob by its stored key, for cleanup after the owning
// vehicle record is already gone. Reports whether a blob existed.
func (b *BillOfSale) Purge(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	existed, err := b.blobs.Delete(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%w: delete bill of sale: %v", types.ErrStorage, err)
	}
	return existed, nil
}

// Attach validates and stores a document for the vehicle, replacing any
// existing one, and records the blob key on the vehicle record. Returns
// the stored key.
func (b *BillOfSale) Attach(ctx context.Context, vehicleID int, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w (%s)", ErrFileType, filename)
	}
	if len(data) > MaxBillSize {
		return "", fmt.Errorf("%w (%d bytes)", ErrFileTooLarge, len(data))
	}
	if err := checkSniff(ext, data); err != nil {
		return "", err
	}

	vehicle, err := b.ledger.Vehicles().Get(vehicleID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("bill_of_sale/%d/%s%s", vehicleID, uuid.New().String(), ext)
	if _, err := b.blobs.Put(ctx, key, bytes.NewReader(data), PutOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("%w: store bill of sale: %v", types.ErrStorage, err)
	}
	if err := b.ledger.Vehicles().Update(vehicleID, types.Fields{"bill_of_sale_filename": key}); err != nil {
		_, _ = b.blobs.Delete(ctx, key)
		return "", err
	}
	if vehicle.BillOfSaleFile != "" {
		if _, err := b.blobs.Delete(ctx, vehicle.BillOfSaleFile); err != nil {
			b.log.Warn("previous bill of sale not removed",
				slog.Int("vehicle_id", vehicleID), slog.String("key", vehicle.BillOfSaleFile))
		}
	}
	b.log.Info("bill of sale attached", slog.Int("vehicle_id", vehicleID), slog.String("key", key))
	return key, nil
}

// Open returns the vehicle's stored document. The caller closes the
// reader.
func (b *BillOfSale) Open(ctx context.Context, vehicleID int) (Info, io.ReadCloser, error) {
	vehicle, err := b.ledger.Vehicles().Get(vehicleID)
	if err != nil {
		return Info{}, nil, err
	}
	if vehicle.BillOfSaleFile == "" {
		return Info{}, nil, fmt.Errorf("%w (vehicle %d)", ErrNoBill, vehicleID)
	}
	info, rc, err := b.blobs.Get(ctx, vehicle.BillOfSaleFile)
	if err != nil {
		return Info{}, nil, fmt.Errorf("%w: read bill of sale: %v", types.ErrStorage, err)
	}
	return info, rc, nil
}

// Remove deletes the vehicle's document and clears the record reference.
// Reports whether a document existed.
func (b *BillOfSale) Remove(ctx context.Context, vehicleID int) (bool, error) {
	vehicle, err := b.ledger.Vehicles().Get(vehicleID)
	if err != nil {
		return false, err
	}
	if vehicle.BillOfSaleFile == "" {
		return false, nil
	}
	if err := b.ledger.Vehicles().Update(vehicleID, types.Fields{"bill_of_sale_filename": ""}); err != nil {
		return false, err
	}
	existed, err := b.blobs.Delete(ctx, vehicle.BillOfSaleFile)
	if err != nil {
		return false, fmt.Errorf("%w: delete bill of sale: %v", types.ErrStorage, err)
	}
	return existed, nil
}

// checkSniff cross-checks the claimed extension against the detected
// content type of the first bytes. Short files sniff as octet-stream,
// which is accepted; mismatched known types are not.
func checkSniff(ext string, data []byte) error {
	detected := http.DetectContentType(data)
	if detected == "application/octet-stream" {
		return nil
	}
	for _, want := range sniffPrefixes[ext] {
		if strings.HasPrefix(detected, want) {
			return nil
		}
	}
	if strings.HasPrefix(detected, "text/") {
		return fmt.Errorf("%w: content is %s", ErrFileType, detected)
	}
	if strings.HasPrefix(detected, "image/") || detected == "application/pdf" {
		return fmt.Errorf("%w: %s content with %s extension", ErrFileType, detected, ext)
	}
	return nil
}
