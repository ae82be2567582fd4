// Package catalog contém o modelo Book, o repositório de leitura e a carga inicial.
package catalog

// Book é o registro do catálogo. Os nomes JSON e DynamoDB são idênticos.
type Book struct {
	ID           string  `json:"id" dynamodbav:"id" yaml:"id" validate:"required"`
	Name         string  `json:"name" dynamodbav:"name" yaml:"name"`
	Author       string  `json:"author" dynamodbav:"author" yaml:"author"`
	Description  string  `json:"description" dynamodbav:"description" yaml:"description"`
	Image        string  `json:"image" dynamodbav:"image" yaml:"image"`
	CountInStock int     `json:"countInStock" dynamodbav:"countInStock" yaml:"countInStock" validate:"gte=0"`
	Price        float64 `json:"price" dynamodbav:"price" yaml:"price" validate:"gte=0"`
}

// attributes lista os atributos projetados em List.
var attributes = []string{"id", "name", "author", "description", "image", "countInStock", "price"}

// DefaultBooks retorna o catálogo embutido.
func DefaultBooks() []Book {
	return []Book{
		{
			ID:           "1",
			Name:         "Liderazgo",
			Author:       "Howard K.",
			Description:  "Guía práctica de liderazgo.",
			Image:        "/images/img-hk-liderazgo.jpeg",
			CountInStock: 12,
			Price:        19.99,
		},
		{
			ID:           "2",
			Name:         "Inteligencia Genial",
			Author:       "Luis D.",
			Description:  "Exploración de la inteligencia humana.",
			Image:        "/images/img-ld-inteligenciagenial.jpeg",
			CountInStock: 5,
			Price:        14.5,
		},
		{
			ID:           "3",
			Name:         "La Biografía",
			Author:       "Luis D.",
			Description:  "Relato biográfico inspirador.",
			Image:        "/images/img-ld-labiografia.jpeg",
			CountInStock: 7,
			Price:        22.0,
		},
		{
			ID:           "4",
			Name:         "Meditaciones",
			Author:       "Marco A.",
			Description:  "Reflexiones filosóficas clásicas.",
			Image:        "/images/img-ma-meditaciones.jpeg",
			CountInStock: 20,
			Price:        11.95,
		},
	}
}
