package identity

type Role string

const (
	RoleCustomer Role = "customer"
	RoleBarber   Role = "barber"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleBarber
}
