package services

import "github.com/grupovertice/intranet/pkg/serrors"

var ErrCertificateExists = serrors.NewError(
	"SIGUA_CERTIFICATE_EXISTS",
	"a valid certificate already covers this combination",
	"sigua.errors.certificateExists",
)
