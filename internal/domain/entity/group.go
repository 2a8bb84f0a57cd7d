package entity

// ProfileGroup representa uma unidade de trabalho para processamento.
// Pode ser um único perfil ou um grupo de perfis da mesma conta AWS
// que devem ser analisados uma única vez quando a flag --combine é usada.
type ProfileGroup struct {
	// Identifier é o nome exibido e usado nos arquivos gerados.
	Identifier string

	// AccountID é preenchido quando os perfis foram agrupados por conta.
	AccountID string

	// Profiles lista os perfis reais; o primeiro é usado para consultar o Cost Explorer.
	Profiles []string

	IsCombined bool
}

// PrimaryProfile returns the profile used to query the billing source.
func (g ProfileGroup) PrimaryProfile() string {
	if len(g.Profiles) == 0 {
		return g.Identifier
	}
	return g.Profiles[0]
}
