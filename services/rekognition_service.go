package services

import (
	"context"
	"os"
	"strings"

	"github.com/Decoding-DataScience/NutridecodeProd/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// RekognitionService runs a cheap label detection pass before any LLM
// tokens are spent on an image.
type RekognitionService struct {
	client *rekognition.Client
}

func NewRekognitionService() (*RekognitionService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, err
	}
	return &RekognitionService{client: rekognition.NewFromConfig(cfg)}, nil
}

// foodIndicators are Rekognition labels that suggest the image shows a
// food product or its packaging.
var foodIndicators = []string{
	"food", "snack", "drink", "beverage", "label", "packaging",
	"bottle", "box", "can", "jar", "text", "groceries", "produce",
}

// RecognizeLabels returns the top detected labels for a data-URI image.
func (r *RekognitionService) RecognizeLabels(imageDataURI string) ([]string, error) {
	_, data, err := utils.DecodeImageDataURI(imageDataURI)
	if err != nil {
		return nil, err
	}

	out, err := r.client.DetectLabels(context.TODO(), &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: data},
		MaxLabels:     aws.Int32(5),
		MinConfidence: aws.Float32(75),
	})
	if err != nil {
		return nil, err
	}

	var labels []string
	for _, l := range out.Labels {
		labels = append(labels, aws.ToString(l.Name))
	}
	return labels, nil
}

// LooksLikeFoodImage reports whether any detected label suggests food
// or packaging. Detection errors resolve to true so a Rekognition
// outage never blocks a scan.
func (r *RekognitionService) LooksLikeFoodImage(imageDataURI string) bool {
	labels, err := r.RecognizeLabels(imageDataURI)
	if err != nil {
		return true
	}
	for _, label := range labels {
		lower := strings.ToLower(label)
		for _, indicator := range foodIndicators {
			if strings.Contains(lower, indicator) {
				return true
			}
		}
	}
	return false
}
