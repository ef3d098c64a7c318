package appointment

// IDs de catálogo e IDs de linha de comanda são chaves diferentes
// e não intercambiáveis: um update de item usa sempre o ID da
// linha (AppointmentServiceID / ProductSaleID), nunca o do catálogo.
// Tipos distintos tornam a troca um erro de compilação.

type ServiceID uint
type ProductID uint

type AppointmentServiceID uint
type ProductSaleID uint

type ProfessionalID uint
type ClientID uint
