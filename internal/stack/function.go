package stack

// Resource types recognized by the triggers.
const (
	TypeServerlessFunction  = "AWS::Serverless::Function"
	TypeLambdaFunction      = "AWS::Lambda::Function"
	TypeServerlessLayer     = "AWS::Serverless::LayerVersion"
	TypeLambdaLayer         = "AWS::Lambda::LayerVersion"
	TypeServerlessAPI       = "AWS::Serverless::Api"
	TypeServerlessHTTPAPI   = "AWS::Serverless::HttpApi"
	TypeRestAPI             = "AWS::ApiGateway::RestApi"
	TypeHTTPAPI             = "AWS::ApiGatewayV2::Api"
	TypeServerlessApp       = "AWS::Serverless::Application"
	TypeCloudFormationStack = "AWS::CloudFormation::Stack"
)

// PackageType values for functions.
const (
	PackageTypeZip   = "Zip"
	PackageTypeImage = "Image"
)

// Function is the resolved view of a function-typed resource.
type Function struct {
	Name          string
	CodeURI       string // "" when the code is not a local path
	PackageType   string
	Architectures []string
	Metadata      map[string]any
}

// IsFunctionType reports whether the resource type declares a function.
func IsFunctionType(resourceType string) bool {
	return resourceType == TypeServerlessFunction || resourceType == TypeLambdaFunction
}

// LookupFunction resolves an identifier into a Function view. Returns nil
// when the identifier does not resolve or resolves to a non-function
// resource.
func LookupFunction(stacks []*Stack, id ResourceIdentifier) *Function {
	r := ResourceByID(stacks, id)
	if r == nil || !IsFunctionType(r.Type) {
		return nil
	}

	fn := &Function{
		Name:        id.LogicalID(),
		PackageType: r.StringProperty("PackageType"),
		Metadata:    r.Metadata,
	}
	if fn.PackageType == "" {
		fn.PackageType = PackageTypeZip
	}

	// CodeUri must be a plain local path to be watchable; an S3 location
	// object resolves to no local code.
	switch r.Type {
	case TypeServerlessFunction:
		fn.CodeURI = r.StringProperty("CodeUri")
	case TypeLambdaFunction:
		fn.CodeURI = r.StringProperty("Code")
	}

	if archs, ok := r.Properties["Architectures"].([]any); ok {
		for _, a := range archs {
			if s, ok := a.(string); ok {
				fn.Architectures = append(fn.Architectures, s)
			}
		}
	}

	return fn
}
