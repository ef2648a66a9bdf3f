// Command libbolt12 is built with -buildmode=c-shared and exposes the decoder
// with the C interface of bolt12.h.
package main

/*
#include <stdbool.h>
#include <stdint.h>
#include <stdlib.h>

typedef struct Offer {
  uint64_t min_amount_sat;
} Offer;

typedef struct CResult_Offer {
  const struct Offer *result;
  const char *error;
} CResult_Offer;

typedef struct Invoice {
  uint64_t amount_sat;
  uint8_t payment_hash[32];
  uint64_t expiry_date;
} Invoice;

typedef struct CResult_Invoice {
  const struct Invoice *result;
  const char *error;
} CResult_Invoice;
*/
import "C"
import (
	"unsafe"

	"github.com/BoltzExchange/boltz-bolt12/internal/boundary"
)

// The result structs are allocated with malloc and owned by the caller, who
// releases them with free. Error strings have to go through free_c_string.

//export decode_offer
func decode_offer(offer *C.char) C.CResult_Offer {
	result := boundary.DecodeOffer(C.GoString(offer))
	if !result.IsOk() {
		return C.CResult_Offer{error: C.CString(result.Message())}
	}

	ptr := (*C.struct_Offer)(C.malloc(C.sizeof_struct_Offer))
	ptr.min_amount_sat = C.uint64_t(result.Value().MinAmountSat)
	return C.CResult_Offer{result: ptr}
}

//export decode_invoice
func decode_invoice(invoice *C.char) C.CResult_Invoice {
	result := boundary.DecodeInvoice(C.GoString(invoice))
	if !result.IsOk() {
		return C.CResult_Invoice{error: C.CString(result.Message())}
	}

	decoded := result.Value()
	ptr := (*C.struct_Invoice)(C.malloc(C.sizeof_struct_Invoice))
	ptr.amount_sat = C.uint64_t(decoded.AmountSat)
	for i, b := range decoded.PaymentHash {
		ptr.payment_hash[i] = C.uint8_t(b)
	}
	ptr.expiry_date = C.uint64_t(decoded.ExpiryDate)
	return C.CResult_Invoice{result: ptr}
}

//export check_invoice_is_for_offer
func check_invoice_is_for_offer(invoice *C.char, offer *C.char) C.bool {
	return C.bool(boundary.CheckInvoiceIsForOffer(C.GoString(invoice), C.GoString(offer)))
}

//export free_c_string
func free_c_string(s *C.char) {
	if s == nil {
		return
	}
	C.free(unsafe.Pointer(s))
}

func main() {}
